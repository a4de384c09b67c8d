// Package candidates enumerates feasible shift skeletons for each worker:
// (start, end, lunch-slot-count, break-count) tuples consistent with
// availability, policies, and daily hour caps. Lunch placement and role
// mapping are decided later by the solver that consumes these candidates.
package candidates

import "github.com/fulfillhq/shiftplan/internal/scheduling/domain"

// Candidate is one feasible shift skeleton for a worker.
type Candidate struct {
	WorkerID    string
	Start       int
	End         int
	WorkMinutes int
	LunchSlots  int
	BreakCount  int
	SlotMinutes int
}

// TotalShiftSlots returns the candidate's full span including lunch.
func (c Candidate) TotalShiftSlots() int {
	return c.End - c.Start
}

// TotalShiftMinutes returns the candidate's full duration including lunch.
func (c Candidate) TotalShiftMinutes() int {
	return c.TotalShiftSlots() * c.SlotMinutes
}

// Generator enumerates candidates using a configurable policy set.
type Generator struct {
	ShiftPolicy domain.ShiftPolicy
	LunchPolicy domain.LunchPolicy
	BreakPolicy domain.BreakPolicy
}

// NewGenerator builds a Generator with the engine's default policies.
func NewGenerator() Generator {
	return Generator{
		ShiftPolicy: domain.NewDefaultShiftPolicy(),
		LunchPolicy: domain.NewDefaultLunchPolicy(),
		BreakPolicy: domain.NewDefaultBreakPolicy(),
	}
}

// ForWorker generates every feasible candidate for one worker against one
// day's request, stepping start/work-duration by stepSlots.
func (g Generator) ForWorker(worker domain.Worker, req domain.Request, stepSlots int) []Candidate {
	if len(worker.EligibleRoles()) == 0 {
		return nil
	}

	availability := worker.AvailabilityOn(req.Date)
	if availability.Off {
		return nil
	}

	slotMinutes := req.SlotMinutes
	minWorkSlots := g.ShiftPolicy.MinWorkMinutes() / slotMinutes
	maxWorkSlots := g.ShiftPolicy.MaxWorkMinutes() / slotMinutes

	daySlots := req.TotalSlots()
	availStart := availability.Start
	if availStart < 0 {
		availStart = 0
	}
	availEnd := availability.End
	if availEnd > daySlots {
		availEnd = daySlots
	}

	if availEnd-availStart < minWorkSlots {
		return nil
	}

	var out []Candidate
	for start := availStart; start < availEnd; start += stepSlots {
		for workSlots := minWorkSlots; workSlots <= maxWorkSlots; workSlots += stepSlots {
			workMinutes := workSlots * slotMinutes
			if workMinutes > worker.MaxMinutesPerDay {
				continue
			}

			lunchMinutes := g.LunchPolicy.LunchMinutes(workMinutes)
			lunchSlots := lunchMinutes / slotMinutes

			end := start + workSlots + lunchSlots
			if end > availEnd || end > daySlots {
				continue
			}

			breakCount := g.BreakPolicy.BreakCount(workMinutes)

			out = append(out, Candidate{
				WorkerID:    worker.ID,
				Start:       start,
				End:         end,
				WorkMinutes: workMinutes,
				LunchSlots:  lunchSlots,
				BreakCount:  breakCount,
				SlotMinutes: slotMinutes,
			})
		}
	}
	return out
}

// ForAllWorkers generates candidates for every worker in the request,
// omitting workers that produce none.
func (g Generator) ForAllWorkers(req domain.Request, stepSlots int) map[string][]Candidate {
	all := make(map[string][]Candidate)
	for _, worker := range req.Workers {
		c := g.ForWorker(worker, req, stepSlots)
		if len(c) > 0 {
			all[worker.ID] = c
		}
	}
	return all
}

// FilterByWorkDuration keeps candidates whose work duration falls within
// [minMinutes, maxMinutes]; either bound may be nil to skip that side. Used
// by the weekly coordinator to bias each worker's candidates toward longer
// or shorter shifts before either solver runs.
func FilterByWorkDuration(cands []Candidate, minMinutes, maxMinutes *int) []Candidate {
	out := cands
	if minMinutes != nil {
		out = filter(out, func(c Candidate) bool { return c.WorkMinutes >= *minMinutes })
	}
	if maxMinutes != nil {
		out = filter(out, func(c Candidate) bool { return c.WorkMinutes <= *maxMinutes })
	}
	return out
}

// FilterByStartTime keeps candidates whose start slot falls within
// [earliestSlot, latestSlot]; either bound may be nil to skip that side.
func FilterByStartTime(cands []Candidate, earliestSlot, latestSlot *int) []Candidate {
	out := cands
	if earliestSlot != nil {
		out = filter(out, func(c Candidate) bool { return c.Start >= *earliestSlot })
	}
	if latestSlot != nil {
		out = filter(out, func(c Candidate) bool { return c.Start <= *latestSlot })
	}
	return out
}

func filter(cands []Candidate, keep func(Candidate) bool) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
