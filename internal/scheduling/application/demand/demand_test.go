package demand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/demand"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

func TestAutoGenerate_EmptyRosterYieldsZeroCurve(t *testing.T) {
	curve := demand.AutoGenerate(nil, domain.DefaultDayStartMinutes, domain.DefaultDayEndMinutes, domain.DefaultSlotMinutes)
	require.NotNil(t, curve)
	for _, slot := range curve.Slots {
		assert.Equal(t, 0, slot.Target)
	}
}

func TestAutoGenerate_PeaksAroundMidday(t *testing.T) {
	workers := make([]domain.Worker, 10)
	for i := range workers {
		workers[i] = domain.Worker{ID: string(rune('a' + i))}
	}

	curve := demand.AutoGenerate(workers, domain.DefaultDayStartMinutes, domain.DefaultDayEndMinutes, domain.DefaultSlotMinutes)
	require.NotEmpty(t, curve.Slots)

	midSlot := len(curve.Slots) / 2
	firstSlot := curve.Slots[0]
	midTarget := curve.Slots[midSlot].Target
	assert.GreaterOrEqual(t, midTarget, firstSlot.Target)
}

func TestAutoGenerateWeek_BuildsWeekdayAndWeekendDefaults(t *testing.T) {
	workers := make([]domain.Worker, 6)
	for i := range workers {
		workers[i] = domain.Worker{ID: string(rune('a' + i))}
	}
	dates := []string{"2026-08-03", "2026-08-04"}

	wd := demand.AutoGenerateWeek(workers, dates, domain.DefaultDayStartMinutes, domain.DefaultDayEndMinutes, domain.DefaultSlotMinutes)
	require.NotNil(t, wd.WeekdayDefault)
	require.NotNil(t, wd.WeekendDefault)

	weekdayTotal, weekendTotal := 0, 0
	for _, s := range wd.WeekdayDefault.Slots {
		weekdayTotal += s.Target
	}
	for _, s := range wd.WeekendDefault.Slots {
		weekendTotal += s.Target
	}
	assert.GreaterOrEqual(t, weekdayTotal, weekendTotal)
}
