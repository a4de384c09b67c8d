package domain

// DaysOffPattern constrains which dates in a week a worker must rest on.
type DaysOffPattern string

const (
	DaysOffNone            DaysOffPattern = "NONE"
	DaysOffTwoConsecutive  DaysOffPattern = "TWO_CONSECUTIVE"
	DaysOffOneWeekendDay   DaysOffPattern = "ONE_WEEKEND_DAY"
	DaysOffEveryOtherDay   DaysOffPattern = "EVERY_OTHER_DAY"
	DaysOffCustom          DaysOffPattern = "CUSTOM"
)

// SolverType selects which backend the weekly coordinator dispatches a
// day's solve to.
type SolverType string

const (
	SolverHeuristic SolverType = "HEURISTIC"
	SolverCPSAT     SolverType = "CPSAT"
	SolverHybrid    SolverType = "HYBRID"
)

// OptimizationMode biases the CP solver's objective weighting.
type OptimizationMode string

const (
	OptimizeMaximizeCoverage     OptimizationMode = "MAXIMIZE_COVERAGE"
	OptimizeMatchDemand          OptimizationMode = "MATCH_DEMAND"
	OptimizeMinimizeUndercoverage OptimizationMode = "MINIMIZE_UNDERCOVERAGE"
	OptimizeBalanced             OptimizationMode = "BALANCED"
)

// ShiftBlockConfig caps how many shifts may start within a named block of
// the day (e.g. morning/day/closing), with an optional soft target.
type ShiftBlockConfig struct {
	Name          string
	Start         int
	End           int
	MaxAssociates int
	Target        int
}

// ShiftStartConfig caps (and optionally targets) how many shifts may begin
// at one specific slot.
type ShiftStartConfig struct {
	Slot       int
	MaxCount   int
	TargetCount int
}

// Request describes a single day's scheduling problem.
type Request struct {
	Date            string
	Workers         []Worker
	DayStartMinutes int
	DayEndMinutes   int
	SlotMinutes     int
	RoleCaps        map[Role]int                 // default 999 (unbounded) when absent
	TimeBasedCaps   map[int]map[Role]int          // slot -> role -> cap, overrides RoleCaps
	BusyDay         bool
	ShiftBlocks     []ShiftBlockConfig
	ShiftStarts     map[int]ShiftStartConfig
	StepSlots       int // candidate enumerator granularity; default 2
}

// TotalSlots returns the number of slots in the request's day.
func (r Request) TotalSlots() int {
	return TotalSlots(r.DayStartMinutes, r.DayEndMinutes, r.SlotMinutes)
}

// CapFor returns the effective cap for (slot, role): the most specific
// time-based override, falling back to the request's global cap, falling
// back to 999 (unbounded).
func (r Request) CapFor(slot int, role Role) int {
	if bySlot, ok := r.TimeBasedCaps[slot]; ok {
		if cap, ok := bySlot[role]; ok {
			return cap
		}
	}
	if cap, ok := r.RoleCaps[role]; ok {
		return cap
	}
	return 999
}

// WithDefaults fills zero-valued fields with the engine's standard
// defaults, returning a new Request.
func (r Request) WithDefaults() Request {
	if r.DayStartMinutes == 0 && r.DayEndMinutes == 0 {
		r.DayStartMinutes = DefaultDayStartMinutes
		r.DayEndMinutes = DefaultDayEndMinutes
	}
	if r.SlotMinutes == 0 {
		r.SlotMinutes = DefaultSlotMinutes
	}
	if r.StepSlots == 0 {
		r.StepSlots = 2
	}
	return r
}

// FairnessConfig governs weekly-hours balancing across workers.
type FairnessConfig struct {
	TargetWeeklyMinutes *int
	MinWeeklyMinutes    int
	MaxHoursVariance    float64 // minutes
	WeightHoursBalance  float64
	WeightDaysBalance   float64
}

// DefaultFairnessConfig returns the standard fairness weights.
func DefaultFairnessConfig() FairnessConfig {
	return FairnessConfig{
		MinWeeklyMinutes:   0,
		MaxHoursVariance:   120.0,
		WeightHoursBalance: 0.7,
		WeightDaysBalance:  0.3,
	}
}

// SolverConfig governs the CP solver's time budget and objective weighting.
type SolverConfig struct {
	TimeLimitSeconds      float64
	NumWorkers            int
	OptimizationMode      OptimizationMode
	DemandWeight          int
	CoverageWeight        int
	FairnessWeight        int
	PreferenceWeight      int
	UndercoveragePenalty  int
	OvercoveragePenalty   int
	PriorityMultipliers   map[Priority]int
	EnforceMinDemand      bool
}

// DefaultSolverConfig returns the standard CP solver configuration.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		TimeLimitSeconds:     30.0,
		NumWorkers:           0,
		OptimizationMode:     OptimizeBalanced,
		DemandWeight:         40,
		CoverageWeight:       30,
		FairnessWeight:       20,
		PreferenceWeight:     10,
		UndercoveragePenalty: 100,
		OvercoveragePenalty:  10,
		PriorityMultipliers:  DefaultPriorityMultipliers(),
		EnforceMinDemand:     false,
	}
}

// DemandAwareConfig governs demand-aware weekly scheduling: which solver to
// dispatch to and whether to synthesize a demand curve when none is given.
type DemandAwareConfig struct {
	SolverType          SolverType
	SolverConfig        SolverConfig
	WeeklyDemand        *WeeklyDemand
	AutoGenerateDemand  bool
	TrackDemandMetrics  bool
}

// DefaultDemandAwareConfig returns the standard demand-aware configuration.
func DefaultDemandAwareConfig() DemandAwareConfig {
	return DemandAwareConfig{
		SolverType:         SolverHybrid,
		SolverConfig:       DefaultSolverConfig(),
		AutoGenerateDemand: true,
		TrackDemandMetrics: true,
	}
}

// WeeklyRequest describes a multi-day scheduling problem.
type WeeklyRequest struct {
	StartDate         string
	EndDate           string
	Workers           []Worker
	DayStartMinutes   int
	DayEndMinutes     int
	SlotMinutes       int
	RoleCaps          map[Role]int
	TimeBasedCaps     map[int]map[Role]int
	BusyDays          map[string]bool
	ShiftBlocks       []ShiftBlockConfig
	ShiftStarts       map[int]ShiftStartConfig
	StepSlots         int
	DaysOffPattern    DaysOffPattern
	RequiredDaysOff   int
	Fairness          FairnessConfig
}

// WithDefaults fills zero-valued fields with the engine's standard defaults.
func (r WeeklyRequest) WithDefaults() WeeklyRequest {
	if r.DayStartMinutes == 0 && r.DayEndMinutes == 0 {
		r.DayStartMinutes = DefaultDayStartMinutes
		r.DayEndMinutes = DefaultDayEndMinutes
	}
	if r.SlotMinutes == 0 {
		r.SlotMinutes = DefaultSlotMinutes
	}
	if r.StepSlots == 0 {
		r.StepSlots = 2
	}
	if r.RequiredDaysOff == 0 {
		r.RequiredDaysOff = 2
	}
	if r.Fairness == (FairnessConfig{}) {
		r.Fairness = DefaultFairnessConfig()
	}
	return r
}

// DayRequestFor builds the single-day Request for date, carrying the
// weekly request's shared day-level parameters.
func (r WeeklyRequest) DayRequestFor(date string, workers []Worker) Request {
	return Request{
		Date:            date,
		Workers:         workers,
		DayStartMinutes: r.DayStartMinutes,
		DayEndMinutes:   r.DayEndMinutes,
		SlotMinutes:     r.SlotMinutes,
		RoleCaps:        r.RoleCaps,
		TimeBasedCaps:   r.TimeBasedCaps,
		BusyDay:         r.BusyDays[date],
		ShiftBlocks:     r.ShiftBlocks,
		ShiftStarts:     r.ShiftStarts,
		StepSlots:       r.StepSlots,
	}
}
