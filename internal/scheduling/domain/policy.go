package domain

// ShiftPolicy bounds how much work time (excluding lunch, including breaks)
// a single shift may contain.
type ShiftPolicy interface {
	MinWorkMinutes() int
	MaxWorkMinutes() int
	IsValidWorkDuration(workMinutes int) bool
}

// LunchPolicy decides whether a shift needs a lunch, how long it must be,
// and the window within which it may be placed.
type LunchPolicy interface {
	LunchMinutes(workMinutes int) int
	// LunchWindow returns the inclusive [earliestStart, latestStart] range of
	// feasible lunch-start slots for a shift of the given bounds.
	LunchWindow(shiftStart, shiftEnd, lunchSlots int, busyDay bool, slotMinutes int) (int, int)
}

// BreakPolicy decides how many rest breaks a shift needs, their duration,
// and their ideal placement relative to the shift and its lunch.
type BreakPolicy interface {
	BreakCount(workMinutes int) int
	BreakDuration() int
	// TargetPositions returns the ideal start slot for each break.
	TargetPositions(workStart, workEnd, count int, lunch *Block, slotMinutes int) []int
	MaxBreakVarianceSlots() int
}

// DefaultShiftPolicy enforces a 4-8 hour work window.
type DefaultShiftPolicy struct {
	MinWork int // minutes
	MaxWork int // minutes
}

// NewDefaultShiftPolicy returns the standard 240-480 minute policy.
func NewDefaultShiftPolicy() DefaultShiftPolicy {
	return DefaultShiftPolicy{MinWork: 240, MaxWork: 480}
}

func (p DefaultShiftPolicy) MinWorkMinutes() int { return p.MinWork }
func (p DefaultShiftPolicy) MaxWorkMinutes() int { return p.MaxWork }

func (p DefaultShiftPolicy) IsValidWorkDuration(workMinutes int) bool {
	return workMinutes >= p.MinWork && workMinutes <= p.MaxWork
}

// DefaultLunchPolicy is a step function on work minutes with a shift-
// midpoint-centered placement window.
type DefaultLunchPolicy struct {
	NoLunchThreshold    int // minutes; below this, no lunch
	ShortLunchThreshold int // minutes; below this, short lunch
	ShortLunchDuration  int
	LongLunchDuration   int
	NormalDayWindow     int // minutes of flex either side of target
	BusyDayWindow       int
}

// NewDefaultLunchPolicy returns the standard thresholds: <6h none,
// 6h-6h30 a 30-minute lunch, >=6h30 a 60-minute lunch.
func NewDefaultLunchPolicy() DefaultLunchPolicy {
	return DefaultLunchPolicy{
		NoLunchThreshold:    360,
		ShortLunchThreshold: 390,
		ShortLunchDuration:  30,
		LongLunchDuration:   60,
		NormalDayWindow:     30,
		BusyDayWindow:       60,
	}
}

func (p DefaultLunchPolicy) LunchMinutes(workMinutes int) int {
	switch {
	case workMinutes < p.NoLunchThreshold:
		return 0
	case workMinutes < p.ShortLunchThreshold:
		return p.ShortLunchDuration
	default:
		return p.LongLunchDuration
	}
}

func (p DefaultLunchPolicy) LunchWindow(shiftStart, shiftEnd, lunchSlots int, busyDay bool, slotMinutes int) (int, int) {
	if lunchSlots == 0 {
		return 0, 0
	}

	shiftLength := shiftEnd - shiftStart
	midPoint := shiftStart + shiftLength/2
	target := midPoint - lunchSlots/2

	windowMinutes := p.NormalDayWindow
	if busyDay {
		windowMinutes = p.BusyDayWindow
	}
	windowSlots := windowMinutes / slotMinutes

	earliest := maxInt(shiftStart+4, target-windowSlots) // at least 1 hour into the shift
	latest := minInt(shiftEnd-lunchSlots-4, target+windowSlots) // at least 1 hour before the end

	earliest = maxInt(shiftStart, earliest)
	latest = maxInt(earliest, latest)

	return earliest, latest
}

// DefaultBreakPolicy places 0-2 fifteen-minute breaks depending on work
// duration, targeting the midpoint(s) of the work segments around lunch.
type DefaultBreakPolicy struct {
	OneBreakThreshold  int // minutes
	TwoBreakThreshold  int // minutes
	Duration           int // minutes
	MinGapFromLunch    int // slots
	MaxVarianceSlots   int
}

// NewDefaultBreakPolicy returns the standard thresholds: <5h none, 5h-7h one
// break, >=7h two breaks, each 15 minutes, ±30 min (2 slots) from target.
func NewDefaultBreakPolicy() DefaultBreakPolicy {
	return DefaultBreakPolicy{
		OneBreakThreshold: 300,
		TwoBreakThreshold: 420,
		Duration:          15,
		MinGapFromLunch:   2,
		MaxVarianceSlots:  2,
	}
}

func (p DefaultBreakPolicy) BreakCount(workMinutes int) int {
	switch {
	case workMinutes >= p.TwoBreakThreshold:
		return 2
	case workMinutes >= p.OneBreakThreshold:
		return 1
	default:
		return 0
	}
}

func (p DefaultBreakPolicy) BreakDuration() int { return p.Duration }

func (p DefaultBreakPolicy) MaxBreakVarianceSlots() int { return p.MaxVarianceSlots }

func (p DefaultBreakPolicy) TargetPositions(workStart, workEnd, count int, lunch *Block, slotMinutes int) []int {
	if count == 0 {
		return nil
	}
	breakSlots := p.Duration / slotMinutes
	workLength := workEnd - workStart

	var targets []int
	switch count {
	case 1:
		if lunch != nil {
			seg1 := lunch.Start - workStart
			seg2 := workEnd - lunch.End
			if seg1 >= seg2 {
				targets = []int{workStart + seg1/2}
			} else {
				targets = []int{lunch.End + seg2/2}
			}
		} else {
			targets = []int{workStart + workLength/2}
		}
	case 2:
		if lunch != nil {
			seg1 := lunch.Start - workStart
			seg2 := workEnd - lunch.End
			targets = []int{workStart + seg1/2, lunch.End + seg2/2}
		} else {
			targets = []int{workStart + workLength/3, workStart + (2*workLength)/3}
		}
	}

	adjusted := make([]int, 0, len(targets))
	for _, target := range targets {
		if lunch != nil && lunch.Start <= target && target < lunch.End {
			if target-workStart < workEnd-target {
				target = lunch.Start - breakSlots - p.MinGapFromLunch
			} else {
				target = lunch.End + p.MinGapFromLunch
			}
		}
		target = maxInt(workStart, target)
		target = minInt(workEnd-breakSlots, target)
		adjusted = append(adjusted, target)
	}
	return adjusted
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
