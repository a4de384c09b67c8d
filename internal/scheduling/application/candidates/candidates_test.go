package candidates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/candidates"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

func baseRequest() domain.Request {
	return domain.Request{
		Date:            "2026-08-03",
		DayStartMinutes: domain.DefaultDayStartMinutes,
		DayEndMinutes:   domain.DefaultDayEndMinutes,
		SlotMinutes:     domain.DefaultSlotMinutes,
	}
}

func TestForWorker_OffDayYieldsNone(t *testing.T) {
	gen := candidates.NewGenerator()
	worker := domain.Worker{
		ID:               "w1",
		MaxMinutesPerDay: 480,
		AllowedRoles:     map[domain.Role]bool{domain.RolePicking: true},
	}
	req := baseRequest()

	result := gen.ForWorker(worker, req, 2)
	assert.Empty(t, result)
}

func TestForWorker_ShortAvailabilityYieldsNone(t *testing.T) {
	gen := candidates.NewGenerator()
	worker := domain.Worker{
		ID:               "w1",
		MaxMinutesPerDay: 480,
		AllowedRoles:     map[domain.Role]bool{domain.RolePicking: true},
		Availability: map[string]domain.Availability{
			"2026-08-03": {Start: 0, End: 10}, // 150 minutes, below the 240 minimum
		},
	}
	req := baseRequest()

	result := gen.ForWorker(worker, req, 2)
	assert.Empty(t, result)
}

func TestForWorker_GeneratesFeasibleCandidates(t *testing.T) {
	gen := candidates.NewGenerator()
	// 08:00-16:00 is slots 12-44 given a 05:00 day start and 15-minute slots.
	worker := domain.Worker{
		ID:               "w1",
		MaxMinutesPerDay: 480,
		AllowedRoles:     map[domain.Role]bool{domain.RolePicking: true},
		Availability: map[string]domain.Availability{
			"2026-08-03": {Start: 12, End: 44},
		},
	}
	req := baseRequest()

	result := gen.ForWorker(worker, req, 2)
	require.NotEmpty(t, result)

	for _, c := range result {
		assert.GreaterOrEqual(t, c.Start, 12)
		assert.LessOrEqual(t, c.End, 44)
		assert.GreaterOrEqual(t, c.WorkMinutes, 240)
		assert.LessOrEqual(t, c.WorkMinutes, 480)
		assert.Equal(t, c.End-c.Start, c.TotalShiftSlots())
	}
}

func TestForWorker_RespectsMaxMinutesPerDay(t *testing.T) {
	gen := candidates.NewGenerator()
	worker := domain.Worker{
		ID:               "w1",
		MaxMinutesPerDay: 300,
		AllowedRoles:     map[domain.Role]bool{domain.RolePicking: true},
		Availability: map[string]domain.Availability{
			"2026-08-03": {Start: 0, End: 68},
		},
	}
	req := baseRequest()

	result := gen.ForWorker(worker, req, 2)
	for _, c := range result {
		assert.LessOrEqual(t, c.WorkMinutes, 300)
	}
}

func TestFilterByWorkDuration(t *testing.T) {
	cands := []candidates.Candidate{
		{WorkMinutes: 240},
		{WorkMinutes: 360},
		{WorkMinutes: 480},
	}

	min := 300
	max := 450
	filtered := candidates.FilterByWorkDuration(cands, &min, &max)

	require.Len(t, filtered, 1)
	assert.Equal(t, 360, filtered[0].WorkMinutes)
}

func TestFilterByStartTime(t *testing.T) {
	cands := []candidates.Candidate{
		{Start: 0},
		{Start: 10},
		{Start: 20},
	}

	earliest := 5
	latest := 15
	filtered := candidates.FilterByStartTime(cands, &earliest, &latest)

	require.Len(t, filtered, 1)
	assert.Equal(t, 10, filtered[0].Start)
}
