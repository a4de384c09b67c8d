package heuristic

import (
	"math"
	"sort"
	"time"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/candidates"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

// Stats summarizes one day's heuristic solve.
type Stats struct {
	WallTime          time.Duration
	WorkersConsidered int
	WorkersScheduled  int
}

// Solver is the greedy per-worker heuristic described for single-day
// scheduling: most-constrained-first shift selection, then lunch placement,
// break placement, and role assignment, all reading and mutating one
// SlotState.
type Solver struct {
	ShiftPolicy domain.ShiftPolicy
	LunchPolicy domain.LunchPolicy
	BreakPolicy domain.BreakPolicy
	Generator   candidates.Generator
}

// NewSolver builds a Solver with the engine's default policies.
func NewSolver() Solver {
	gen := candidates.NewGenerator()
	return Solver{
		ShiftPolicy: gen.ShiftPolicy,
		LunchPolicy: gen.LunchPolicy,
		BreakPolicy: gen.BreakPolicy,
		Generator:   gen,
	}
}

// Selection is one worker's chosen shift skeleton as it moves through the
// lunch, break, and role-assignment phases. The CP solver builds a Selection
// per selected (worker, candidate, lunch) triple read out of its MIP
// solution and reuses PlaceBreaks/AssignRoles below so both solvers place
// breaks and assign roles identically.
type Selection struct {
	Worker     domain.Worker
	Candidate  candidates.Candidate
	Lunch      *domain.Block
	Breaks     []domain.Block
	Roles      []domain.JobAssignment
	Initial    domain.Role
	HasInitial bool
}

type selection = Selection

// SolveDay runs the full four-phase heuristic against req and returns the
// resulting DaySchedule.
func (s Solver) SolveDay(req domain.Request) (*domain.DaySchedule, Stats) {
	req = req.WithDefaults()
	allCandidates := s.Generator.ForAllWorkers(req, req.StepSlots)
	return s.SolveDayWithCandidates(req, allCandidates)
}

// SolveDayWithCandidates runs the same four phases against an
// already-built candidate set, letting a caller bias or prune candidates
// (e.g. the weekly coordinator's above/below-average work-duration
// preference) before the greedy selection runs.
func (s Solver) SolveDayWithCandidates(req domain.Request, allCandidates map[string][]candidates.Candidate) (*domain.DaySchedule, Stats) {
	start := time.Now()
	req = req.WithDefaults()

	state := NewSlotState(req.TotalSlots())
	blocks := newBlockState()
	starts := newStartState()

	selections := s.phase1ShiftSelection(req, allCandidates, state, blocks, starts)

	sort.Slice(selections, func(i, j int) bool {
		return selections[i].Candidate.Start < selections[j].Candidate.Start
	})

	for i := range selections {
		s.phase2LunchPlacement(req, state, &selections[i])
	}
	for i := range selections {
		s.PlaceBreaks(state, &selections[i])
	}
	for i := range selections {
		s.AssignRoles(req, state, &selections[i])
	}

	schedule := domain.NewDaySchedule(req.Date, req.DayStartMinutes, req.DayEndMinutes, req.SlotMinutes)
	for _, sel := range selections {
		schedule.Assignments[sel.Worker.ID] = domain.ShiftAssignment{
			WorkerID:       sel.Worker.ID,
			Date:           req.Date,
			ShiftStart:     sel.Candidate.Start,
			ShiftEnd:       sel.Candidate.End,
			Lunch:          sel.Lunch,
			Breaks:         sel.Breaks,
			JobAssignments: sel.Roles,
			SlotMinutes:    req.SlotMinutes,
		}
	}

	stats := Stats{
		WallTime:          time.Since(start),
		WorkersConsidered: len(allCandidates),
		WorkersScheduled:  len(selections),
	}
	return schedule, stats
}

// phase1ShiftSelection orders workers most-constrained-first (ascending
// candidate count) and greedily picks each worker's highest-scoring
// candidate, honoring block and start-time caps.
func (s Solver) phase1ShiftSelection(
	req domain.Request,
	allCandidates map[string][]candidates.Candidate,
	state *SlotState,
	blocks *blockState,
	starts *startState,
) []selection {
	workerIDs := make([]string, 0, len(allCandidates))
	for id := range allCandidates {
		workerIDs = append(workerIDs, id)
	}
	sort.Slice(workerIDs, func(i, j int) bool {
		ci, cj := len(allCandidates[workerIDs[i]]), len(allCandidates[workerIDs[j]])
		if ci != cj {
			return ci < cj
		}
		return workerIDs[i] < workerIDs[j]
	})

	workerByID := make(map[string]domain.Worker, len(req.Workers))
	for _, w := range req.Workers {
		workerByID[w.ID] = w
	}

	var selections []selection
	for _, id := range workerIDs {
		cands := allCandidates[id]
		best, bestScore, ok := s.bestCandidate(req, cands, state, blocks, starts)
		if !ok {
			continue
		}

		shiftBlock := domain.Block{Start: best.Start, End: best.End}
		state.addOnFloor(shiftBlock, 1)
		if cfg, found := blocks.blockFor(best.Start, req.ShiftBlocks); found {
			blocks.counts[cfg.Name]++
		}
		if _, found := req.ShiftStarts[best.Start]; found {
			starts.counts[best.Start]++
		}

		_ = bestScore
		selections = append(selections, Selection{Worker: workerByID[id], Candidate: best})
	}
	return selections
}

func (s Solver) bestCandidate(
	req domain.Request,
	cands []candidates.Candidate,
	state *SlotState,
	blocks *blockState,
	starts *startState,
) (candidates.Candidate, float64, bool) {
	var best candidates.Candidate
	bestScore := math.Inf(-1)
	found := false

	for _, c := range cands {
		score, feasible := s.scoreCandidate(req, c, state, blocks, starts)
		if !feasible {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = c
			found = true
		}
	}
	return best, bestScore, found
}

func (s Solver) scoreCandidate(
	req domain.Request,
	c candidates.Candidate,
	state *SlotState,
	blocks *blockState,
	starts *startState,
) (float64, bool) {
	score := 0.0
	for slot := c.Start; slot < c.End; slot++ {
		onFloor := state.OnFloorCount[slot]
		switch {
		case onFloor == 0:
			score += 10
		case onFloor < 3:
			score += 5
		case onFloor < 5:
			score += 2
		default:
			score += 1
		}
	}
	score += float64(c.WorkMinutes) / 100

	if len(req.ShiftBlocks) > 0 {
		cfg, found := blocks.blockFor(c.Start, req.ShiftBlocks)
		if found {
			current := blocks.counts[cfg.Name]
			if cfg.MaxAssociates > 0 && current >= cfg.MaxAssociates {
				return 0, false
			}
			if current < cfg.Target {
				score += 5 * float64(cfg.Target-current)
			}
		}
	}

	if len(req.ShiftStarts) > 0 {
		if cfg, found := req.ShiftStarts[c.Start]; found {
			current := starts.counts[c.Start]
			if cfg.MaxCount > 0 && current >= cfg.MaxCount {
				return 0, false
			}
			if current < cfg.TargetCount {
				score += 10 * float64(cfg.TargetCount-current)
			}
		}
	}

	return score, true
}

// openingHourCutoffSlot is the slot of the 08:00 lunch-placement cutoff.
// The "opener" role-persistence rule uses firstHourSlots instead.
func openingHourCutoffSlot(req domain.Request) int {
	return (480 - req.DayStartMinutes) / req.SlotMinutes
}

func firstHourSlots(req domain.Request) int {
	return 60 / req.SlotMinutes
}

// phase2LunchPlacement scores every feasible lunch-start slot in the
// LunchPolicy window and records the highest-scoring placement.
func (s Solver) phase2LunchPlacement(req domain.Request, state *SlotState, sel *selection) {
	c := sel.Candidate
	if c.LunchSlots == 0 {
		return
	}

	earliest, latest := s.LunchPolicy.LunchWindow(c.Start, c.End, c.LunchSlots, req.BusyDay, req.SlotMinutes)

	shiftLength := c.End - c.Start
	midpoint := c.Start + shiftLength/2
	target := midpoint - c.LunchSlots/2

	if c.Start < openingHourCutoffSlot(req) && target > earliest {
		earliest = target
	}

	bestSlot := -1
	bestScore := math.Inf(-1)
	for st := earliest; st <= latest; st++ {
		if st < c.Start || st+c.LunchSlots > c.End {
			continue
		}
		score := -100 * float64(state.LunchStartCount[st])
		for slot := st; slot < st+c.LunchSlots; slot++ {
			score -= float64(state.OnLunchCount[slot])
		}
		score -= 0.5 * math.Abs(float64(st-target))
		if score > bestScore {
			bestScore = score
			bestSlot = st
		}
	}
	if bestSlot < 0 {
		return
	}

	block := domain.Block{Start: bestSlot, End: bestSlot + c.LunchSlots}
	state.addOnLunch(block, 1)
	state.addOnFloor(block, -1)
	state.LunchStartCount[bestSlot]++
	sel.Lunch = &block
}

// PlaceBreaks searches an offset window around each ideal break target for
// the best-scoring valid position that avoids lunch and previously placed
// breaks, preferring slots with higher floor occupancy and lower existing
// break occupancy. It fills in sel.Breaks for an already shift- and lunch-placed
// selection. Exported so the CP solver's post-pass can reuse it verbatim
// after reading its own (worker, candidate, lunch) assignment out of a
// MIP solution.
func (s Solver) PlaceBreaks(state *SlotState, sel *Selection) {
	c := sel.Candidate
	if c.BreakCount == 0 {
		return
	}

	targets := s.BreakPolicy.TargetPositions(c.Start, c.End, c.BreakCount, sel.Lunch, c.SlotMinutes)
	breakSlots := s.BreakPolicy.BreakDuration() / c.SlotMinutes
	variance := s.BreakPolicy.MaxBreakVarianceSlots()

	placed := make([]domain.Block, 0, c.BreakCount)

	for _, target := range targets {
		best := -1
		bestScore := math.Inf(-1)
		for offset := -variance; offset <= variance; offset++ {
			candStart := target + offset
			candEnd := candStart + breakSlots
			if candStart < c.Start || candEnd > c.End {
				continue
			}
			candBlock := domain.Block{Start: candStart, End: candEnd}
			if sel.Lunch != nil && candBlock.Overlaps(*sel.Lunch) {
				continue
			}
			overlapsEarlier := false
			for _, pb := range placed {
				if candBlock.Overlaps(pb) {
					overlapsEarlier = true
					break
				}
			}
			if overlapsEarlier {
				continue
			}

			score := -2 * math.Abs(float64(offset))
			for slot := candStart; slot < candEnd; slot++ {
				score += 0.1*float64(state.OnFloorCount[slot]) - 5*float64(state.OnBreakCount[slot])
			}
			if score > bestScore {
				bestScore = score
				best = candStart
			}
		}
		if best < 0 {
			continue
		}
		block := domain.Block{Start: best, End: best + breakSlots}
		state.addOnFloor(block, -1)
		state.addOnBreak(block, 1)
		placed = append(placed, block)
	}

	sel.Breaks = placed
}

// AssignRoles walks the shift's maximal on-floor intervals and assigns each
// a role, honoring specialized-role priority and the opener/mid-shift
// persistence rules. It fills in sel.Roles for an already shift-, lunch- and
// break-placed selection. Exported for the same reason as PlaceBreaks.
func (s Solver) AssignRoles(req domain.Request, state *SlotState, sel *Selection) {
	intervals := onFloorIntervals(sel)
	opener := sel.Candidate.Start < firstHourSlots(req)

	for _, interval := range intervals {
		var role domain.Role
		var ok bool

		if sel.HasInitial {
			if opener {
				role, ok = s.tryRole(req, state, sel.Worker, interval, sel.Initial)
			} else if isPersistentRole(sel.Initial) {
				role, ok = s.tryRole(req, state, sel.Worker, interval, sel.Initial)
			}
		}

		if !ok {
			role, ok = s.selectRole(req, state, sel.Worker, interval)
		}
		if !ok {
			continue
		}

		state.addRole(role, interval, 1)
		sel.Roles = append(sel.Roles, domain.JobAssignment{Role: role, Block: interval})
		if !sel.HasInitial {
			sel.Initial = role
			sel.HasInitial = true
		}
	}
}

func isPersistentRole(r domain.Role) bool {
	switch r {
	case domain.RoleGMDSM, domain.RoleExceptionSM, domain.RoleSR, domain.RoleBackroom:
		return true
	default:
		return false
	}
}

// selectRole picks a role for interval by specialized-role priority, then
// PICKING, then any eligible role that fits the caps.
func (s Solver) selectRole(req domain.Request, state *SlotState, worker domain.Worker, interval domain.Block) (domain.Role, bool) {
	for _, role := range domain.SpecializedRoles {
		if !worker.CanDoRole(role) {
			continue
		}
		if worker.PreferenceFor(role) == domain.PreferenceAvoid {
			continue
		}
		if fitsCap(req, state, role, interval) {
			return role, true
		}
	}

	if worker.CanDoRole(domain.RolePicking) && fitsCap(req, state, domain.RolePicking, interval) {
		return domain.RolePicking, true
	}

	for role := range worker.EligibleRoles() {
		if fitsCap(req, state, role, interval) {
			return role, true
		}
	}
	return "", false
}

func (s Solver) tryRole(req domain.Request, state *SlotState, worker domain.Worker, interval domain.Block, role domain.Role) (domain.Role, bool) {
	if !worker.CanDoRole(role) {
		return "", false
	}
	if !fitsCap(req, state, role, interval) {
		return "", false
	}
	return role, true
}

func fitsCap(req domain.Request, state *SlotState, role domain.Role, interval domain.Block) bool {
	counts := state.RoleCounts[role]
	for slot := interval.Start; slot < interval.End; slot++ {
		if counts[slot] >= req.CapFor(slot, role) {
			return false
		}
	}
	return true
}

// onFloorIntervals returns the maximal contiguous on-floor slot ranges of a
// selection's shift: the shift minus its lunch and breaks.
func onFloorIntervals(sel *selection) []domain.Block {
	c := sel.Candidate
	excluded := make([]domain.Block, 0, 1+len(sel.Breaks))
	if sel.Lunch != nil {
		excluded = append(excluded, *sel.Lunch)
	}
	excluded = append(excluded, sel.Breaks...)
	sort.Slice(excluded, func(i, j int) bool { return excluded[i].Start < excluded[j].Start })

	var intervals []domain.Block
	cursor := c.Start
	for _, ex := range excluded {
		if ex.Start > cursor {
			intervals = append(intervals, domain.Block{Start: cursor, End: ex.Start})
		}
		if ex.End > cursor {
			cursor = ex.End
		}
	}
	if cursor < c.End {
		intervals = append(intervals, domain.Block{Start: cursor, End: c.End})
	}
	return intervals
}
