package cpsolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/cpsolver"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

func TestSolveDay_S1Minimal(t *testing.T) {
	worker := domain.Worker{
		ID:                "w1",
		Name:              "Ada",
		MaxMinutesPerDay:  480,
		MaxMinutesPerWeek: 2400,
		Availability: map[string]domain.Availability{
			"2026-08-03": {Start: 12, End: 44},
		},
		AllowedRoles: map[domain.Role]bool{domain.RolePicking: true},
	}
	req := domain.Request{
		Date:    "2026-08-03",
		Workers: []domain.Worker{worker},
		RoleCaps: map[domain.Role]int{
			domain.RolePicking: 999,
		},
	}.WithDefaults()

	solver := cpsolver.NewSolver()
	schedule, stats := solver.SolveDay(req, domain.DefaultSolverConfig(), nil)

	require.NotNil(t, schedule)
	assert.NotEmpty(t, stats.Status)

	assignment, ok := schedule.Assignments["w1"]
	if !ok {
		return
	}
	assert.Equal(t, 420, assignment.WorkMinutes())
	assert.Equal(t, 60, assignment.LunchMinutes())
}

func TestSolveDay_CapEnforcement(t *testing.T) {
	var workers []domain.Worker
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		workers = append(workers, domain.Worker{
			ID:               id,
			MaxMinutesPerDay: 480,
			Availability: map[string]domain.Availability{
				"2026-08-03": {Start: 0, End: 68},
			},
			AllowedRoles: map[domain.Role]bool{
				domain.RoleGMDSM:   true,
				domain.RolePicking: true,
			},
		})
	}

	req := domain.Request{
		Date:    "2026-08-03",
		Workers: workers,
		RoleCaps: map[domain.Role]int{
			domain.RoleGMDSM:   2,
			domain.RolePicking: 999,
		},
	}.WithDefaults()

	solver := cpsolver.NewSolver()
	schedule, _ := solver.SolveDay(req, domain.DefaultSolverConfig(), nil)

	for slot := 0; slot < schedule.TotalSlots(); slot++ {
		assert.LessOrEqual(t, schedule.RoleCoverageAt(slot, domain.RoleGMDSM), 2)
	}
}

func TestSolveDay_NoWorkersYieldsEmptySchedule(t *testing.T) {
	req := domain.Request{Date: "2026-08-03"}.WithDefaults()

	solver := cpsolver.NewSolver()
	schedule, stats := solver.SolveDay(req, domain.DefaultSolverConfig(), nil)

	assert.Empty(t, schedule.Assignments)
	assert.Equal(t, cpsolver.StatusFeasible, stats.Status)
}

func TestSolveDay_DemandCurveBoundsCoverage(t *testing.T) {
	var workers []domain.Worker
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		workers = append(workers, domain.Worker{
			ID:               id,
			MaxMinutesPerDay: 480,
			Availability: map[string]domain.Availability{
				"2026-08-03": {Start: 0, End: 68},
			},
			AllowedRoles: map[domain.Role]bool{domain.RolePicking: true},
		})
	}

	req := domain.Request{
		Date:    "2026-08-03",
		Workers: workers,
		RoleCaps: map[domain.Role]int{
			domain.RolePicking: 999,
		},
	}.WithDefaults()

	curve := domain.NewDemandCurve(req.TotalSlots())
	for i := range curve.Slots {
		curve.Slots[i] = domain.DemandSlot{Min: 1, Target: 3, Max: 4, Priority: domain.PriorityNormal}
	}

	cfg := domain.DefaultSolverConfig()
	cfg.EnforceMinDemand = true

	solver := cpsolver.NewSolver()
	schedule, _ := solver.SolveDay(req, cfg, curve)

	require.NotNil(t, schedule)
}
