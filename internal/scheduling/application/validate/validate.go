// Package validate independently re-checks a solved schedule against every
// hard and soft rule the solvers are supposed to have already honored. It
// never mutates a schedule; it only reports, so a caller can choose to
// reject a solve, log a warning, or publish as-is.
package validate

import (
	"fmt"
	"time"

	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

// Validator re-checks solved schedules against the engine's policies,
// independently of whichever solver produced them.
type Validator struct {
	ShiftPolicy domain.ShiftPolicy
	LunchPolicy domain.LunchPolicy
	BreakPolicy domain.BreakPolicy
}

// NewValidator builds a Validator with the engine's default policies.
func NewValidator() Validator {
	return Validator{
		ShiftPolicy: domain.NewDefaultShiftPolicy(),
		LunchPolicy: domain.NewDefaultLunchPolicy(),
		BreakPolicy: domain.NewDefaultBreakPolicy(),
	}
}

// Day re-checks one day's schedule: per-assignment rules (shift bounds,
// availability, durations, lunch and break placement, role eligibility) and
// the day-wide role-cap rule.
func (v Validator) Day(req domain.Request, day *domain.DaySchedule) domain.Result {
	var result domain.Result

	workerByID := make(map[string]domain.Worker, len(req.Workers))
	for _, w := range req.Workers {
		workerByID[w.ID] = w
	}

	for workerID, a := range day.Assignments {
		w, ok := workerByID[workerID]
		if !ok {
			result.AddError(domain.NewValidationError(domain.ShiftOutsideAvailability, workerID,
				fmt.Sprintf("assignment references unknown worker %q", workerID)))
			continue
		}
		v.checkAssignment(req, day, w, a, &result)
	}

	v.checkRoleCaps(req, day, &result)

	return result
}

func (v Validator) checkAssignment(req domain.Request, day *domain.DaySchedule, w domain.Worker, a domain.ShiftAssignment, result *domain.Result) {
	totalSlots := day.TotalSlots()
	shift := a.ShiftBlock()

	if shift.Start < 0 || shift.End > totalSlots {
		result.AddError(domain.NewValidationError(domain.ShiftOutsideDay, w.ID,
			fmt.Sprintf("shift [%d,%d) falls outside the day's %d slots", shift.Start, shift.End, totalSlots)))
	}

	avail := w.AvailabilityOn(day.Date)
	if avail.Off || shift.Start < avail.Start || shift.End > avail.End {
		result.AddError(domain.NewValidationError(domain.ShiftOutsideAvailability, w.ID,
			fmt.Sprintf("shift [%d,%d) is outside availability [%d,%d)", shift.Start, shift.End, avail.Start, avail.End)))
	}

	workMinutes := a.WorkMinutes()
	if !v.ShiftPolicy.IsValidWorkDuration(workMinutes) {
		kind := domain.WorkTimeTooShort
		if workMinutes > v.ShiftPolicy.MaxWorkMinutes() {
			kind = domain.WorkTimeTooLong
		}
		result.AddError(domain.NewValidationError(kind, w.ID,
			fmt.Sprintf("work minutes %d outside policy bounds", workMinutes)))
	}
	if workMinutes > w.MaxMinutesPerDay {
		result.AddError(domain.NewValidationError(domain.MaxDailyHoursExceeded, w.ID,
			fmt.Sprintf("work minutes %d exceeds worker's daily max %d", workMinutes, w.MaxMinutesPerDay)))
	}

	v.checkLunch(a, result)
	v.checkBreaks(a, result)
	v.checkRoles(w, a, totalSlots, result)
}

func (v Validator) checkLunch(a domain.ShiftAssignment, result *domain.Result) {
	wantLunch := v.LunchPolicy.LunchMinutes(a.WorkMinutes())

	if a.Lunch == nil {
		if wantLunch > 0 {
			result.AddError(domain.NewValidationError(domain.InvalidLunchDuration, a.WorkerID,
				fmt.Sprintf("shift needs a %d minute lunch but none was assigned", wantLunch)))
		}
		return
	}

	shift := a.ShiftBlock()
	if a.Lunch.Start < shift.Start || a.Lunch.End > shift.End {
		result.AddError(domain.NewValidationError(domain.LunchOutsideShift, a.WorkerID,
			"lunch block falls outside the shift"))
	}

	if got := a.Lunch.Minutes(a.SlotMinutes); got != wantLunch {
		result.AddError(domain.NewValidationError(domain.InvalidLunchDuration, a.WorkerID,
			fmt.Sprintf("lunch is %d minutes, policy requires %d", got, wantLunch)))
	}
}

func (v Validator) checkBreaks(a domain.ShiftAssignment, result *domain.Result) {
	wantCount := v.BreakPolicy.BreakCount(a.WorkMinutes())
	if len(a.Breaks) != wantCount {
		result.AddError(domain.NewValidationError(domain.InvalidBreakCount, a.WorkerID,
			fmt.Sprintf("shift has %d breaks, policy requires %d", len(a.Breaks), wantCount)))
	}

	shift := a.ShiftBlock()
	wantDuration := v.BreakPolicy.BreakDuration()

	for i, b := range a.Breaks {
		if b.Start < shift.Start || b.End > shift.End {
			result.AddError(domain.NewValidationError(domain.BreakOutsideShift, a.WorkerID,
				fmt.Sprintf("break %d falls outside the shift", i)))
		}
		if got := b.Minutes(a.SlotMinutes); got != wantDuration {
			result.AddError(domain.NewValidationError(domain.InvalidBreakDuration, a.WorkerID,
				fmt.Sprintf("break %d is %d minutes, policy requires %d", i, got, wantDuration)))
		}
		if a.Lunch != nil && b.Overlaps(*a.Lunch) {
			result.AddError(domain.NewValidationError(domain.BreakOverlapsLunch, a.WorkerID,
				fmt.Sprintf("break %d overlaps lunch", i)))
		}
		for j := i + 1; j < len(a.Breaks); j++ {
			if b.Overlaps(a.Breaks[j]) {
				result.AddError(domain.NewValidationError(domain.BreaksOverlap, a.WorkerID,
					fmt.Sprintf("breaks %d and %d overlap", i, j)))
			}
		}
	}
}

func (v Validator) checkRoles(w domain.Worker, a domain.ShiftAssignment, totalSlots int, result *domain.Result) {
	for _, ja := range a.JobAssignments {
		if w.ForbiddenRoles[ja.Role] {
			result.AddError(domain.NewValidationError(domain.RoleCannotDo, w.ID,
				fmt.Sprintf("assigned forbidden role %s", ja.Role)))
		} else if !w.AllowedRoles[ja.Role] {
			result.AddError(domain.NewValidationError(domain.RoleNotAllowedBySupervisor, w.ID,
				fmt.Sprintf("assigned role %s not in worker's allowed set", ja.Role)))
		}
	}

	for slot := 0; slot < totalSlots; slot++ {
		if !a.IsOnFloor(slot) {
			continue
		}
		if _, ok := a.RoleAt(slot); !ok {
			result.AddError(domain.NewValidationError(domain.NoJobAssignment, w.ID,
				fmt.Sprintf("on-floor slot %d has no job assignment", slot)).WithSlot(slot))
		}
	}
}

func (v Validator) checkRoleCaps(req domain.Request, day *domain.DaySchedule, result *domain.Result) {
	totalSlots := day.TotalSlots()
	for slot := 0; slot < totalSlots; slot++ {
		for _, role := range domain.AllRoles {
			cap := req.CapFor(slot, role)
			if cap >= 999 {
				continue
			}
			if covered := day.RoleCoverageAt(slot, role); covered > cap {
				result.AddError(domain.NewValidationError(domain.RoleCapExceeded, "",
					fmt.Sprintf("slot %d role %s covered by %d, cap is %d", slot, role, covered, cap)).WithSlot(slot))
			}
		}
	}
}

// Week re-checks every day in schedule via Day, then the weekly-scoped
// rules: per-worker weekly minutes, required days off, the days-off pattern,
// and fairness dispersion.
func (v Validator) Week(req domain.WeeklyRequest, schedule *domain.WeeklySchedule) domain.Result {
	var result domain.Result

	dates := sortedDates(schedule)
	for _, date := range dates {
		day := schedule.Days[date]
		dayReq := req.DayRequestFor(date, req.Workers).WithDefaults()
		dayResult := v.Day(dayReq, day)
		result.Errors = append(result.Errors, dayResult.Errors...)
		result.Warnings = append(result.Warnings, dayResult.Warnings...)
	}

	for _, w := range req.Workers {
		v.checkWeeklyMinutes(schedule, w, &result)
		v.checkDaysOffPattern(req, schedule, w, dates, &result)
	}

	v.checkFairness(req, schedule, &result)

	return result
}

func (v Validator) checkWeeklyMinutes(schedule *domain.WeeklySchedule, w domain.Worker, result *domain.Result) {
	total := schedule.WeeklyMinutesFor(w.ID)
	if total > w.MaxMinutesPerWeek {
		result.AddError(domain.NewValidationError(domain.MaxWeeklyHoursExceeded, w.ID,
			fmt.Sprintf("weekly minutes %d exceeds worker's weekly max %d", total, w.MaxMinutesPerWeek)))
	}
}

func (v Validator) checkDaysOffPattern(req domain.WeeklyRequest, schedule *domain.WeeklySchedule, w domain.Worker, dates []string, result *domain.Result) {
	daysOff := make([]string, 0, len(dates))
	worked := make(map[string]bool, len(dates))
	for _, date := range dates {
		if _, ok := schedule.Days[date].Assignments[w.ID]; ok {
			worked[date] = true
		} else {
			daysOff = append(daysOff, date)
		}
	}

	if len(daysOff) < req.RequiredDaysOff {
		result.AddError(domain.NewValidationError(domain.InsufficientDaysOff, w.ID,
			fmt.Sprintf("%d days off scheduled, %d required", len(daysOff), req.RequiredDaysOff)))
	}

	switch req.DaysOffPattern {
	case domain.DaysOffTwoConsecutive:
		if !hasConsecutivePair(daysOff, dates) {
			result.AddError(domain.NewValidationError(domain.DaysOffPatternViolated, w.ID,
				"no two consecutive days off found in the week"))
		}
	case domain.DaysOffOneWeekendDay:
		if !anyWeekend(daysOff) {
			result.AddError(domain.NewValidationError(domain.DaysOffPatternViolated, w.ID,
				"no weekend day off found in the week"))
		}
	case domain.DaysOffEveryOtherDay:
		if pair, ok := consecutiveWorkedPair(worked, dates); ok {
			result.AddError(domain.NewValidationError(domain.ConsecutiveWorkDaysExceeded, w.ID,
				fmt.Sprintf("worked %s and %s on consecutive days", pair[0], pair[1])))
		}
	}
}

func (v Validator) checkFairness(req domain.WeeklyRequest, schedule *domain.WeeklySchedule, result *domain.Result) {
	if schedule.Fairness == nil || len(schedule.Fairness.PerWorkerMinutes) == 0 {
		return
	}

	avg := schedule.Fairness.AverageWeeklyMinutes
	if schedule.Fairness.Variance > req.Fairness.MaxHoursVariance*req.Fairness.MaxHoursVariance {
		result.AddWarning(domain.NewValidationError(domain.FairnessThresholdExceeded, "",
			fmt.Sprintf("weekly minutes variance %.1f exceeds threshold", schedule.Fairness.Variance)))
	}

	for id, minutes := range schedule.Fairness.PerWorkerMinutes {
		if avg > 0 && float64(minutes) < avg*0.5 {
			result.AddWarning(domain.NewValidationError(domain.MinWeeklyHoursNotMet, id,
				fmt.Sprintf("worker scheduled %d minutes, under half the %.1f average", minutes, avg)))
		}
	}
}

func sortedDates(schedule *domain.WeeklySchedule) []string {
	dates := make([]string, 0, len(schedule.Days))
	for date := range schedule.Days {
		dates = append(dates, date)
	}
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j] < dates[j-1]; j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
	return dates
}

func hasConsecutivePair(daysOff, allDates []string) bool {
	off := make(map[string]bool, len(daysOff))
	for _, d := range daysOff {
		off[d] = true
	}
	for i := 1; i < len(allDates); i++ {
		if off[allDates[i-1]] && off[allDates[i]] {
			return true
		}
	}
	return false
}

func consecutiveWorkedPair(worked map[string]bool, dates []string) ([2]string, bool) {
	for i := 1; i < len(dates); i++ {
		if worked[dates[i-1]] && worked[dates[i]] {
			return [2]string{dates[i-1], dates[i]}, true
		}
	}
	return [2]string{}, false
}

func anyWeekend(daysOff []string) bool {
	for _, d := range daysOff {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		iso := (int(t.Weekday()) + 6) % 7
		if iso >= 5 {
			return true
		}
	}
	return false
}
