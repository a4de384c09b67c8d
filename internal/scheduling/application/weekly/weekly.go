// Package weekly drives the multi-day scheduling loop: per-worker weekly
// state tracking, the days-off pattern enforcer, the fairness balancer, and
// dispatch to the heuristic or CP solver for each day.
package weekly

import (
	"log/slog"
	"sort"
	"time"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/candidates"
	"github.com/fulfillhq/shiftplan/internal/scheduling/application/cpsolver"
	"github.com/fulfillhq/shiftplan/internal/scheduling/application/demand"
	"github.com/fulfillhq/shiftplan/internal/scheduling/application/heuristic"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
	"github.com/fulfillhq/shiftplan/pkg/observability"
)

// WeeklyState is one worker's running totals as the coordinator walks the
// week's dates in order.
type WeeklyState struct {
	MinutesScheduled int
	DaysWorked       []string
	DaysOff          []string
	MaxWeeklyMinutes int
}

// Stats summarizes one weekly solve.
type Stats struct {
	WallTime      time.Duration
	DaysSolved    int
	FallbackCount int // days CPSAT/HYBRID fell back to the heuristic
	DemandByDate  map[string]domain.DemandMetrics
}

// Coordinator runs the weekly scheduling loop described for multi-day
// rosters: per-day candidate generation, solver dispatch, and weekly-state
// bookkeeping feeding the days-off and fairness rules for subsequent days.
type Coordinator struct {
	Generator candidates.Generator
	Heuristic heuristic.Solver
	CPSolver  cpsolver.Solver
	Logger    *slog.Logger // optional; when set, one Timer logs each day's solve
}

// NewCoordinator builds a Coordinator with the engine's default solvers.
func NewCoordinator() Coordinator {
	return Coordinator{
		Generator: candidates.NewGenerator(),
		Heuristic: heuristic.NewSolver(),
		CPSolver:  cpsolver.NewSolver(),
	}
}

// SolveWeek processes req.StartDate..req.EndDate in ascending order,
// producing one DaySchedule per date plus end-of-week fairness metrics.
func (c Coordinator) SolveWeek(req domain.WeeklyRequest, cfg domain.DemandAwareConfig) (*domain.WeeklySchedule, Stats) {
	start := time.Now()
	req = req.WithDefaults()

	dates := dateRange(req.StartDate, req.EndDate)
	states := make(map[string]*WeeklyState, len(req.Workers))
	for _, w := range req.Workers {
		states[w.ID] = &WeeklyState{MaxWeeklyMinutes: w.MaxMinutesPerWeek}
	}
	workerByID := make(map[string]domain.Worker, len(req.Workers))
	for _, w := range req.Workers {
		workerByID[w.ID] = w
	}

	weeklyDemand := cfg.WeeklyDemand
	if weeklyDemand == nil && cfg.AutoGenerateDemand {
		weeklyDemand = demand.AutoGenerateWeek(req.Workers, dates, req.DayStartMinutes, req.DayEndMinutes, req.SlotMinutes)
	}

	schedule := &domain.WeeklySchedule{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Days:      make(map[string]*domain.DaySchedule, len(dates)),
	}

	stats := Stats{DemandByDate: make(map[string]domain.DemandMetrics)}

	shiftPolicy := domain.NewDefaultShiftPolicy()

	for i, date := range dates {
		considered := c.selectWorkersToConsider(date, dates, i, req, states, shiftPolicy)
		if len(considered) == 0 {
			schedule.Days[date] = domain.NewDaySchedule(date, req.DayStartMinutes, req.DayEndMinutes, req.SlotMinutes)
			continue
		}

		consideredIDs := make([]string, 0, len(considered))
		for id := range considered {
			consideredIDs = append(consideredIDs, id)
		}
		avg := averageMinutesScheduled(states, consideredIDs)

		dayWorkers := make([]domain.Worker, 0, len(considered))
		for id, cap := range considered {
			w := workerByID[id]
			w.MaxMinutesPerDay = cap
			dayWorkers = append(dayWorkers, w)
		}
		dayReq := req.DayRequestFor(date, dayWorkers).WithDefaults()

		allCandidates := c.Generator.ForAllWorkers(dayReq, dayReq.StepSlots)
		biasCandidatesByWeeklyAverage(allCandidates, states, avg)

		var curve *domain.DemandCurve
		if weeklyDemand != nil {
			curve = weeklyDemand.CurveFor(date, isWeekend(date))
		}

		timer := observability.StartTimer("weekly.solve_day").WithTags(observability.T("date", date), observability.T("solver", string(cfg.SolverType)))
		if c.Logger != nil {
			timer = timer.WithLogger(c.Logger)
		}
		day, fellBack := c.solveDay(dayReq, cfg, curve, allCandidates)
		timer.Stop()
		if fellBack {
			stats.FallbackCount++
		}
		schedule.Days[date] = day
		stats.DaysSolved++

		for id := range considered {
			st := states[id]
			if a, ok := day.Assignments[id]; ok {
				st.MinutesScheduled += a.WorkMinutes()
				st.DaysWorked = append(st.DaysWorked, date)
			} else {
				st.DaysOff = append(st.DaysOff, date)
			}
		}

		if curve != nil && cfg.TrackDemandMetrics {
			stats.DemandByDate[date] = domain.ComputeDemandMetrics(day.CoverageTimeline(), curve, req.SlotMinutes)
		}
	}

	schedule.Fairness = computeFairnessMetrics(states)
	stats.WallTime = time.Since(start)
	return schedule, stats
}

func (c Coordinator) solveDay(
	dayReq domain.Request,
	cfg domain.DemandAwareConfig,
	curve *domain.DemandCurve,
	allCandidates map[string][]candidates.Candidate,
) (*domain.DaySchedule, bool) {
	switch cfg.SolverType {
	case domain.SolverHeuristic:
		day, _ := c.Heuristic.SolveDayWithCandidates(dayReq, allCandidates)
		return day, false

	case domain.SolverCPSAT, domain.SolverHybrid:
		day, cstats := c.CPSolver.SolveDayWithCandidates(dayReq, cfg.SolverConfig, curve, allCandidates)
		if cstats.Status == cpsolver.StatusInfeasible || cstats.Status == cpsolver.StatusModelInvalid ||
			cstats.Status == cpsolver.StatusUnknown {
			day, _ := c.Heuristic.SolveDayWithCandidates(dayReq, allCandidates)
			return day, true
		}
		return day, false

	default:
		day, _ := c.Heuristic.SolveDayWithCandidates(dayReq, allCandidates)
		return day, false
	}
}

// selectWorkersToConsider applies the skip rules (availability, remaining
// weekly budget, days-off pattern, fairness deferral) and returns the
// per-worker daily cap for every worker still eligible today.
func (c Coordinator) selectWorkersToConsider(
	date string,
	dates []string,
	dateIdx int,
	req domain.WeeklyRequest,
	states map[string]*WeeklyState,
	shiftPolicy domain.ShiftPolicy,
) map[string]int {
	considered := make(map[string]int)
	avg := averageMinutesScheduled(states, allWorkerIDs(req.Workers))
	minWork := shiftPolicy.MinWorkMinutes()
	minWorkSlots := minWork / req.SlotMinutes

	for _, w := range req.Workers {
		st := states[w.ID]
		avail := w.AvailabilityOn(date)
		if avail.Off || avail.SlotCount() < minWorkSlots {
			continue
		}

		remaining := st.MaxWeeklyMinutes - st.MinutesScheduled
		if remaining < minWork {
			st.DaysOff = append(st.DaysOff, date)
			continue
		}

		if mustBeOff(req.DaysOffPattern, req.RequiredDaysOff, st, date, dates, dateIdx) {
			st.DaysOff = append(st.DaysOff, date)
			continue
		}

		if fairnessDefers(req.Fairness, st, avg) {
			continue
		}

		cap := w.MaxMinutesPerDay
		if remaining < cap {
			cap = remaining
		}
		if cap < minWork {
			continue
		}
		considered[w.ID] = cap
	}
	return considered
}

// mustBeOff implements the pattern enforcer plus the universal
// forced-remaining-days rule that applies regardless of pattern.
func mustBeOff(pattern domain.DaysOffPattern, requiredDaysOff int, st *WeeklyState, date string, dates []string, dateIdx int) bool {
	remainingCount := len(dates) - dateIdx
	if requiredDaysOff-len(st.DaysOff) >= remainingCount {
		return true
	}

	switch pattern {
	case domain.DaysOffTwoConsecutive:
		if contains(st.DaysOff, addDays(date, -1)) {
			return true
		}
		if remainingCount == requiredDaysOff-len(st.DaysOff) {
			return true
		}
		return false

	case domain.DaysOffOneWeekendDay:
		if hasWeekendOff(st.DaysOff) {
			return false
		}
		return isLastWeekendDayAmong(date, dates, dateIdx)

	case domain.DaysOffEveryOtherDay:
		return contains(st.DaysWorked, addDays(date, -1))

	default:
		return false
	}
}

func fairnessDefers(cfg domain.FairnessConfig, st *WeeklyState, avgMinutes float64) bool {
	if st.MinutesScheduled <= avgMinutes+cfg.MaxHoursVariance {
		return false
	}
	return true
}

func averageMinutesScheduled(states map[string]*WeeklyState, ids []string) float64 {
	if len(ids) == 0 {
		return 0
	}
	total := 0
	for _, id := range ids {
		total += states[id].MinutesScheduled
	}
	return float64(total) / float64(len(ids))
}

func allWorkerIDs(workers []domain.Worker) []string {
	ids := make([]string, len(workers))
	for i, w := range workers {
		ids[i] = w.ID
	}
	return ids
}

// biasCandidatesByWeeklyAverage sorts, then prunes, each worker's candidate
// list toward longer shifts when the worker is below the weekly average and
// toward shorter shifts when more than 10% above it.
func biasCandidatesByWeeklyAverage(allCandidates map[string][]candidates.Candidate, states map[string]*WeeklyState, avg float64) {
	for id, cands := range allCandidates {
		if len(cands) < 2 {
			continue
		}
		st := states[id]
		minutes := float64(st.MinutesScheduled)

		sorted := append([]candidates.Candidate(nil), cands...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].WorkMinutes < sorted[j].WorkMinutes })
		median := sorted[len(sorted)/2].WorkMinutes

		switch {
		case minutes < avg:
			allCandidates[id] = candidates.FilterByWorkDuration(sorted, &median, nil)
		case minutes > avg*1.10:
			allCandidates[id] = candidates.FilterByWorkDuration(sorted, nil, &median)
		default:
			allCandidates[id] = sorted
		}
		if len(allCandidates[id]) == 0 {
			allCandidates[id] = cands
		}
	}
}

func computeFairnessMetrics(states map[string]*WeeklyState) *domain.FairnessMetrics {
	metrics := &domain.FairnessMetrics{
		PerWorkerMinutes:    make(map[string]int, len(states)),
		PerWorkerDaysWorked: make(map[string]int, len(states)),
		PerWorkerDaysOff:    make(map[string][]string, len(states)),
	}
	if len(states) == 0 {
		return metrics
	}

	total, min, max := 0, -1, -1
	for id, st := range states {
		metrics.PerWorkerMinutes[id] = st.MinutesScheduled
		metrics.PerWorkerDaysWorked[id] = len(st.DaysWorked)
		metrics.PerWorkerDaysOff[id] = st.DaysOff
		total += st.MinutesScheduled
		if min < 0 || st.MinutesScheduled < min {
			min = st.MinutesScheduled
		}
		if max < 0 || st.MinutesScheduled > max {
			max = st.MinutesScheduled
		}
	}

	metrics.AverageWeeklyMinutes = float64(total) / float64(len(states))
	metrics.MinWeeklyMinutes = min
	metrics.MaxWeeklyMinutes = max

	variance := 0.0
	for _, st := range states {
		d := float64(st.MinutesScheduled) - metrics.AverageWeeklyMinutes
		variance += d * d
	}
	metrics.Variance = variance / float64(len(states))

	return metrics
}

func contains(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func hasWeekendOff(dates []string) bool {
	for _, d := range dates {
		if isWeekend(d) {
			return true
		}
	}
	return false
}

func isLastWeekendDayAmong(date string, dates []string, dateIdx int) bool {
	if !isWeekend(date) {
		return false
	}
	for _, d := range dates[dateIdx+1:] {
		if isWeekend(d) {
			return false
		}
	}
	return true
}

// isWeekend reports whether date falls on Saturday or Sunday, using the
// Monday=0..Sunday=6 weekday numbering the days-off rules are specified in.
func isWeekend(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	iso := (int(t.Weekday()) + 6) % 7
	return iso >= 5
}

func addDays(date string, delta int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, delta).Format("2006-01-02")
}

// dateRange returns every date in [start, end] inclusive, ascending.
func dateRange(start, end string) []string {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil
	}

	var dates []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates
}
