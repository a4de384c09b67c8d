// Package cpsolver builds and solves the day-scheduling problem as a mixed
// integer program on github.com/nextmv-io/sdk/mip, backed by the HiGHS
// solver. It selects (worker, candidate, lunch-start) triples and an
// on-floor coverage plan, then hands the result to the heuristic package's
// PlaceBreaks/AssignRoles so both solvers fill in breaks and roles the same
// way.
package cpsolver

import (
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/fulfillhq/shiftplan/internal/scheduling/application/candidates"
	"github.com/fulfillhq/shiftplan/internal/scheduling/application/heuristic"
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
	"github.com/fulfillhq/shiftplan/internal/shared/convert"
)

// boundedFloat guards a slot count or role cap against silent overflow
// before handing it to the solver's float64-valued model APIs.
func boundedFloat(v int) float64 {
	return float64(convert.IntToInt32Safe(v))
}

// Status mirrors the MIP solver's outcome for one day's solve.
type Status string

const (
	StatusOptimal      Status = "OPTIMAL"
	StatusFeasible     Status = "FEASIBLE"
	StatusInfeasible   Status = "INFEASIBLE"
	StatusModelInvalid Status = "MODEL_INVALID"
	StatusUnknown      Status = "UNKNOWN"
)

// Stats summarizes one day's MIP solve.
type Stats struct {
	Status     Status
	WallTime   time.Duration
	ObjValue   float64
	NumWorkers int
	NumVars    int
}

// Solver formulates and solves the day-scheduling MIP.
type Solver struct {
	Generator candidates.Generator
	Heuristic heuristic.Solver
}

// NewSolver builds a Solver with the engine's default policies.
func NewSolver() Solver {
	return Solver{
		Generator: candidates.NewGenerator(),
		Heuristic: heuristic.NewSolver(),
	}
}

// candidateVar is one (worker, candidate) pair and its selection variable.
type candidateVar struct {
	worker domain.Worker
	cand   candidates.Candidate
	x      mip.Bool
}

// lunchVar is one (worker, candidate, lunch-start-slot) triple and its
// selection variable.
type lunchVar struct {
	workerID string
	cand     candidates.Candidate
	start    int
	l        mip.Bool
}

// model is the built MIP plus the lookup tables needed to read a solution
// back into a DaySchedule.
type model struct {
	m           mip.Model
	cvars       []candidateVar
	cvarsByID   map[string][]int // worker ID -> indices into cvars
	lvars       []lunchVar
	lvarsByCand map[int][]int // index into cvars -> indices into lvars
	under, over map[int]mip.Float
	totalSlots  int
}

// SolveDay builds the MIP for req, solves it, and on success runs the
// shared break-placement and role-assignment post-pass. If the solver
// cannot find a feasible solution within its time limit, SolveDay falls
// back to the heuristic solver entirely, per the engine's documented
// hybrid behavior.
func (s Solver) SolveDay(req domain.Request, cfg domain.SolverConfig, curve *domain.DemandCurve) (*domain.DaySchedule, Stats) {
	req = req.WithDefaults()
	allCandidates := s.Generator.ForAllWorkers(req, req.StepSlots)
	return s.SolveDayWithCandidates(req, cfg, curve, allCandidates)
}

// SolveDayWithCandidates is SolveDay against an already-built candidate set,
// letting a caller bias or prune candidates before the MIP is built (e.g.
// the weekly coordinator's above/below-average work-duration preference).
func (s Solver) SolveDayWithCandidates(req domain.Request, cfg domain.SolverConfig, curve *domain.DemandCurve, allCandidates map[string][]candidates.Candidate) (*domain.DaySchedule, Stats) {
	req = req.WithDefaults()
	start := time.Now()

	if len(allCandidates) == 0 {
		schedule := domain.NewDaySchedule(req.Date, req.DayStartMinutes, req.DayEndMinutes, req.SlotMinutes)
		return schedule, Stats{Status: StatusFeasible, WallTime: time.Since(start)}
	}

	built := buildModel(req, cfg, curve, allCandidates)
	built.m.Objective().SetMaximize()

	timeLimit := cfg.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = domain.DefaultSolverConfig().TimeLimitSeconds
	}
	solveOpts := mip.SolveOptions{
		Duration: time.Duration(timeLimit * float64(time.Second)),
	}

	solver, err := mip.NewSolver(mip.Highs, built.m)
	if err != nil {
		schedule, _ := s.Heuristic.SolveDay(req)
		return schedule, Stats{Status: StatusModelInvalid, WallTime: time.Since(start), NumWorkers: len(req.Workers)}
	}

	solution, err := solver.Solve(solveOpts)

	wall := time.Since(start)
	if err != nil || solution == nil {
		schedule, hstats := s.Heuristic.SolveDay(req)
		_ = hstats
		return schedule, Stats{Status: StatusUnknown, WallTime: wall, NumWorkers: len(req.Workers)}
	}

	status := StatusFeasible
	switch {
	case solution.IsOptimal():
		status = StatusOptimal
	case solution.IsSubOptimal():
		status = StatusFeasible
	default:
		// HiGHS returned no usable assignment within the time budget; the
		// hybrid policy falls back to the greedy heuristic rather than
		// return an empty day.
		schedule, _ := s.Heuristic.SolveDay(req)
		return schedule, Stats{Status: StatusInfeasible, WallTime: wall, NumWorkers: len(req.Workers)}
	}

	schedule := s.extract(req, built, solution)

	stats := Stats{
		Status:     status,
		WallTime:   wall,
		ObjValue:   solution.ObjectiveValue(),
		NumWorkers: len(req.Workers),
		NumVars:    len(built.cvars) + len(built.lvars),
	}
	return schedule, stats
}

func buildModel(req domain.Request, cfg domain.SolverConfig, curve *domain.DemandCurve, allCandidates map[string][]candidates.Candidate) *model {
	m := mip.NewModel()
	totalSlots := req.TotalSlots()

	built := &model{
		m:           m,
		cvarsByID:   make(map[string][]int),
		lvarsByCand: make(map[int][]int),
		under:       make(map[int]mip.Float),
		over:        make(map[int]mip.Float),
		totalSlots:  totalSlots,
	}

	workerByID := make(map[string]domain.Worker, len(req.Workers))
	for _, w := range req.Workers {
		workerByID[w.ID] = w
	}

	for workerID, cands := range allCandidates {
		worker := workerByID[workerID]
		for _, c := range cands {
			idx := len(built.cvars)
			built.cvars = append(built.cvars, candidateVar{worker: worker, cand: c, x: m.NewBool()})
			built.cvarsByID[workerID] = append(built.cvarsByID[workerID], idx)

			if c.LunchSlots > 0 {
				for lstart := c.Start; lstart+c.LunchSlots <= c.End; lstart++ {
					lidx := len(built.lvars)
					built.lvars = append(built.lvars, lunchVar{
						workerID: workerID,
						cand:     c,
						start:    lstart,
						l:        m.NewBool(),
					})
					built.lvarsByCand[idx] = append(built.lvarsByCand[idx], lidx)
				}
			}
		}
	}

	// At most one candidate per worker.
	for _, indices := range built.cvarsByID {
		con := m.NewConstraint(mip.LessThanOrEqual, 1.0)
		for _, idx := range indices {
			con.NewTerm(1.0, built.cvars[idx].x)
		}
	}

	// Exactly one lunch start when the candidate is selected and requires
	// a lunch break.
	for idx, lindices := range built.lvarsByCand {
		con := m.NewConstraint(mip.Equal, 0.0)
		con.NewTerm(1.0, built.cvars[idx].x)
		for _, lidx := range lindices {
			con.NewTerm(-1.0, built.lvars[lidx].l)
		}
	}

	onFloorByCand := onFloorVarsByCandidate(m, built)
	applyRoleCaps(m, req, built, onFloorByCand)

	underPenalty := float64(cfg.UndercoveragePenalty)
	overPenalty := float64(cfg.OvercoveragePenalty)
	priorityMult := cfg.PriorityMultipliers
	if priorityMult == nil {
		priorityMult = domain.DefaultPriorityMultipliers()
	}

	for t := 0; t < totalSlots; t++ {
		coverers := onFloorByCand[t]
		if len(coverers) == 0 {
			continue
		}

		if curve != nil && t < len(curve.Slots) {
			ds := curve.Slots[t]
			built.under[t] = m.NewFloat(0, boundedFloat(ds.Target))
			built.over[t] = m.NewFloat(0, boundedFloat(len(built.cvars)))

			con := m.NewConstraint(mip.Equal, boundedFloat(ds.Target))
			for _, entry := range coverers {
				con.NewTerm(1.0, entry.v)
			}
			con.NewTerm(1.0, built.under[t])
			con.NewTerm(-1.0, built.over[t])

			if cfg.EnforceMinDemand && ds.Min > 0 {
				minCon := m.NewConstraint(mip.GreaterThanOrEqual, boundedFloat(ds.Min))
				for _, entry := range coverers {
					minCon.NewTerm(1.0, entry.v)
				}
			}

			mult := float64(priorityMult[ds.Priority])
			if mult == 0 {
				mult = 1
			}
			m.Objective().NewTerm(-underPenalty*mult, built.under[t])
			m.Objective().NewTerm(-overPenalty, built.over[t])
		}

		for _, entry := range coverers {
			m.Objective().NewTerm(float64(cfg.CoverageWeight)/100.0, entry.v)
		}
	}

	for _, cv := range built.cvars {
		pref := float64(cv.worker.PreferenceScore())
		m.Objective().NewTerm(float64(cfg.PreferenceWeight)/100.0*pref, cv.x)
		m.Objective().NewTerm(float64(cv.cand.WorkMinutes)/600.0, cv.x)
	}

	return built
}

// onFloorEntry pairs a slot's on-floor boolean with the index of the
// candidate variable it was derived from, so callers can filter by the
// owning worker's role eligibility.
type onFloorEntry struct {
	cvIdx int
	v     mip.Bool
}

// onFloorVarsByCandidate returns, for each slot t, the on-floor boolean
// variable contributed by every selected candidate covering t. A
// candidate's coverage at t equals x[w,c] unless a lunch variable covering
// t is selected, in which case it is excluded. When the candidate has no
// lunch slots its on-floor variable is simply its selection variable; when
// it does, an auxiliary boolean is linked with the standard AND-NOT
// linearization.
func onFloorVarsByCandidate(m mip.Model, built *model) map[int][]onFloorEntry {
	byT := make(map[int][]onFloorEntry)

	for idx := range built.cvars {
		cv := &built.cvars[idx]
		lindices := built.lvarsByCand[idx]

		if len(lindices) == 0 {
			for t := cv.cand.Start; t < cv.cand.End; t++ {
				byT[t] = append(byT[t], onFloorEntry{cvIdx: idx, v: cv.x})
			}
			continue
		}

		for t := cv.cand.Start; t < cv.cand.End; t++ {
			var coveringLunch []mip.Bool
			for _, lidx := range lindices {
				lv := built.lvars[lidx]
				if t >= lv.start && t < lv.start+lv.cand.LunchSlots {
					coveringLunch = append(coveringLunch, lv.l)
				}
			}

			// onFloor == x AND NOT(any covering lunch var), linearized as:
			//   onFloor <= x
			//   onFloor + sum(coveringLunch) <= 1
			//   onFloor >= x - sum(coveringLunch)
			onFloor := m.NewBool()

			upper := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			upper.NewTerm(1.0, onFloor)
			upper.NewTerm(-1.0, cv.x)

			exclusive := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			exclusive.NewTerm(1.0, onFloor)
			for _, lv := range coveringLunch {
				exclusive.NewTerm(1.0, lv)
			}

			lower := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
			lower.NewTerm(1.0, onFloor)
			lower.NewTerm(-1.0, cv.x)
			for _, lv := range coveringLunch {
				lower.NewTerm(1.0, lv)
			}

			byT[t] = append(byT[t], onFloorEntry{cvIdx: idx, v: onFloor})
		}
	}

	return byT
}

// applyRoleCaps constrains, for each role and slot with a finite cap, the
// number of eligible-for-that-role workers on the floor. Eligibility is
// evaluated at the candidate level since the MIP does not decide roles
// directly; AssignRoles narrows the actual role per worker afterward.
func applyRoleCaps(m mip.Model, req domain.Request, built *model, onFloorByCand map[int][]onFloorEntry) {
	for t := 0; t < built.totalSlots; t++ {
		for _, role := range domain.AllRoles {
			cap := req.CapFor(t, role)
			if cap >= 999 {
				continue
			}

			var eligible []mip.Bool
			for _, entry := range onFloorByCand[t] {
				if built.cvars[entry.cvIdx].worker.CanDoRole(role) {
					eligible = append(eligible, entry.v)
				}
			}
			if len(eligible) == 0 {
				continue
			}

			con := m.NewConstraint(mip.LessThanOrEqual, boundedFloat(cap))
			for _, v := range eligible {
				con.NewTerm(1.0, v)
			}
		}
	}
}

// extract reads the selected (worker, candidate) pairs and their lunch
// placement out of solution and runs the shared break/role post-pass.
func (s Solver) extract(req domain.Request, built *model, solution mip.Solution) *domain.DaySchedule {
	const selectedThreshold = 0.9

	schedule := domain.NewDaySchedule(req.Date, req.DayStartMinutes, req.DayEndMinutes, req.SlotMinutes)
	state := heuristic.NewSlotState(req.TotalSlots())

	var selections []heuristic.Selection
	for idx, cv := range built.cvars {
		if solution.Value(cv.x) < selectedThreshold {
			continue
		}

		sel := heuristic.Selection{Worker: cv.worker, Candidate: cv.cand}
		for _, lidx := range built.lvarsByCand[idx] {
			lv := built.lvars[lidx]
			if solution.Value(lv.l) < selectedThreshold {
				continue
			}
			block := domain.Block{Start: lv.start, End: lv.start + lv.cand.LunchSlots}
			sel.Lunch = &block
			for slot := block.Start; slot < block.End; slot++ {
				state.OnLunchCount[slot]++
			}
			break
		}

		for slot := cv.cand.Start; slot < cv.cand.End; slot++ {
			onLunch := sel.Lunch != nil && slot >= sel.Lunch.Start && slot < sel.Lunch.End
			if !onLunch {
				state.OnFloorCount[slot]++
			}
		}

		selections = append(selections, sel)
	}

	for i := range selections {
		s.Heuristic.PlaceBreaks(state, &selections[i])
	}
	for i := range selections {
		s.Heuristic.AssignRoles(req, state, &selections[i])
	}

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

	return schedule
}
