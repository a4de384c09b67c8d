// Package demand builds DemandProfile/DemandCurve/WeeklyDemand values for
// callers that do not hand-author an hourly staffing pattern, and wires the
// weekly coordinator's auto-generation path.
package demand

import (
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

// peakTargetPerWorker is the fraction of the roster assumed on the floor at
// the single busiest hour of a synthesized day, used only by AutoGenerate.
const peakTargetPerWorker = 0.55

// AutoGenerate synthesizes a DemandCurve for one day from nothing but the
// day's worker count: a triangular hourly target rising from the day start
// to a midday peak and back down, scaled by roster size. It exists for
// callers that want demand-aware scheduling (coverage/under-over penalties,
// DemandMetrics) without authoring an explicit DemandProfile.
func AutoGenerate(workers []domain.Worker, dayStartMinutes, dayEndMinutes, slotMinutes int) *domain.DemandCurve {
	totalSlots := domain.TotalSlots(dayStartMinutes, dayEndMinutes, slotMinutes)
	if totalSlots <= 0 || len(workers) == 0 {
		return domain.NewDemandCurve(totalSlots)
	}

	peak := int(float64(len(workers))*peakTargetPerWorker + 0.5)
	if peak < 1 {
		peak = 1
	}

	startHour := dayStartMinutes / 60
	endHour := dayEndMinutes / 60
	if endHour <= startHour {
		endHour = startHour + 1
	}
	midHour := (startHour + endHour) / 2
	span := endHour - startHour

	hourly := make(map[int]int, span)
	for hour := startHour; hour < endHour; hour++ {
		distFromPeak := hour - midHour
		if distFromPeak < 0 {
			distFromPeak = -distFromPeak
		}
		halfSpan := span / 2
		if halfSpan == 0 {
			halfSpan = 1
		}
		falloff := 1.0 - float64(distFromPeak)/float64(halfSpan)
		if falloff < 0.2 {
			falloff = 0.2
		}
		target := int(float64(peak)*falloff + 0.5)
		if target < 1 {
			target = 1
		}
		hourly[hour] = target
	}

	return domain.CurveFromHourlyTargets(hourly, dayStartMinutes, slotMinutes, totalSlots)
}

// AutoGenerateWeek builds a WeeklyDemand whose weekday default is generated
// from the full roster and whose weekend default is generated from a
// reduced assumed turnout, since DemandProfile authoring is out of scope
// for callers that only want the coordinator's auto-generate path.
func AutoGenerateWeek(workers []domain.Worker, dates []string, dayStartMinutes, dayEndMinutes, slotMinutes int) *domain.WeeklyDemand {
	weekdayCurve := AutoGenerate(workers, dayStartMinutes, dayEndMinutes, slotMinutes)

	weekendRoster := workers
	if len(workers) > 1 {
		weekendRoster = workers[:(len(workers)*2+2)/3]
	}
	weekendCurve := AutoGenerate(weekendRoster, dayStartMinutes, dayEndMinutes, slotMinutes)

	return &domain.WeeklyDemand{
		ByDate:         make(map[string]*domain.DemandCurve),
		WeekdayDefault: weekdayCurve,
		WeekendDefault: weekendCurve,
	}
}

// FromProfile converts a named, reusable hourly pattern into a WeeklyDemand
// applied uniformly across every date, useful when a caller has a single
// DemandProfile covering the whole roster rather than per-date curves.
func FromProfile(profile domain.DemandProfile, dayStartMinutes, dayEndMinutes, slotMinutes int) *domain.WeeklyDemand {
	totalSlots := domain.TotalSlots(dayStartMinutes, dayEndMinutes, slotMinutes)
	curve := profile.ToCurve(dayStartMinutes, slotMinutes, totalSlots)
	return &domain.WeeklyDemand{
		ByDate:         make(map[string]*domain.DemandCurve),
		WeekdayDefault: curve,
		WeekendDefault: curve,
	}
}
