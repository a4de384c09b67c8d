package weekly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/weekly"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

func fullWeekAvailability(start, end int) map[string]domain.Availability {
	dates := []string{"2026-08-03", "2026-08-04", "2026-08-05", "2026-08-06", "2026-08-07", "2026-08-08", "2026-08-09"}
	avail := make(map[string]domain.Availability, len(dates))
	for _, d := range dates {
		avail[d] = domain.Availability{Start: start, End: end}
	}
	return avail
}

func TestSolveWeek_EnforcesRequiredDaysOff(t *testing.T) {
	worker := domain.Worker{
		ID:                "w1",
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 2400,
		Availability:      fullWeekAvailability(0, 68),
		AllowedRoles:      map[domain.Role]bool{domain.RolePicking: true},
	}

	req := domain.WeeklyRequest{
		StartDate: "2026-08-03",
		EndDate:   "2026-08-09",
		Workers:   []domain.Worker{worker},
		RoleCaps: map[domain.Role]int{
			domain.RolePicking: 999,
		},
		DaysOffPattern:  domain.DaysOffTwoConsecutive,
		RequiredDaysOff: 2,
	}.WithDefaults()

	coordinator := weekly.NewCoordinator()
	cfg := domain.DefaultDemandAwareConfig()
	cfg.SolverType = domain.SolverHeuristic
	cfg.AutoGenerateDemand = false

	schedule, stats := coordinator.SolveWeek(req, cfg)

	require.NotNil(t, schedule)
	assert.Equal(t, 7, stats.DaysSolved)

	daysOff := 0
	for _, day := range schedule.Days {
		if _, ok := day.Assignments["w1"]; !ok {
			daysOff++
		}
	}
	assert.GreaterOrEqual(t, daysOff, 2)
}

func TestSolveWeek_RespectsWeeklyMinutesCap(t *testing.T) {
	worker := domain.Worker{
		ID:                "w1",
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 900,
		Availability:      fullWeekAvailability(0, 68),
		AllowedRoles:      map[domain.Role]bool{domain.RolePicking: true},
	}

	req := domain.WeeklyRequest{
		StartDate: "2026-08-03",
		EndDate:   "2026-08-09",
		Workers:   []domain.Worker{worker},
		RoleCaps: map[domain.Role]int{
			domain.RolePicking: 999,
		},
	}.WithDefaults()

	coordinator := weekly.NewCoordinator()
	cfg := domain.DefaultDemandAwareConfig()
	cfg.SolverType = domain.SolverHeuristic
	cfg.AutoGenerateDemand = false

	schedule, _ := coordinator.SolveWeek(req, cfg)

	assert.LessOrEqual(t, schedule.WeeklyMinutesFor("w1"), 900)
}

func TestSolveWeek_FairnessMetricsComputed(t *testing.T) {
	workers := []domain.Worker{
		{ID: "w1", MaxMinutesPerDay: 480, MaxMinutesPerWeek: 2400, Availability: fullWeekAvailability(0, 68), AllowedRoles: map[domain.Role]bool{domain.RolePicking: true}},
		{ID: "w2", MaxMinutesPerDay: 480, MaxMinutesPerWeek: 2400, Availability: fullWeekAvailability(0, 68), AllowedRoles: map[domain.Role]bool{domain.RolePicking: true}},
	}

	req := domain.WeeklyRequest{
		StartDate: "2026-08-03",
		EndDate:   "2026-08-09",
		Workers:   workers,
		RoleCaps: map[domain.Role]int{
			domain.RolePicking: 999,
		},
	}.WithDefaults()

	coordinator := weekly.NewCoordinator()
	cfg := domain.DefaultDemandAwareConfig()
	cfg.SolverType = domain.SolverHeuristic
	cfg.AutoGenerateDemand = false

	schedule, _ := coordinator.SolveWeek(req, cfg)

	require.NotNil(t, schedule.Fairness)
	assert.Len(t, schedule.Fairness.PerWorkerMinutes, 2)
}
