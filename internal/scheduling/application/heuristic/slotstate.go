// Package heuristic implements the greedy per-worker solver: shift
// selection, lunch placement, break placement, and role assignment, all
// operating on a live per-slot state array owned exclusively by one solve.
package heuristic

import "github.com/fulfillhq/shiftplan/internal/scheduling/domain"

// SlotState is the arena-allocated per-slot bookkeeping a day's heuristic
// solve reads and mutates. It is owned by one Solver.SolveDay call and
// discarded afterward.
type SlotState struct {
	OnFloorCount    []int
	OnLunchCount    []int
	OnBreakCount    []int
	LunchStartCount []int
	RoleCounts      map[domain.Role][]int
}

// NewSlotState allocates a zeroed SlotState sized for totalSlots.
func NewSlotState(totalSlots int) *SlotState {
	s := &SlotState{
		OnFloorCount:    make([]int, totalSlots),
		OnLunchCount:    make([]int, totalSlots),
		OnBreakCount:    make([]int, totalSlots),
		LunchStartCount: make([]int, totalSlots),
		RoleCounts:      make(map[domain.Role][]int, len(domain.AllRoles)),
	}
	for _, role := range domain.AllRoles {
		s.RoleCounts[role] = make([]int, totalSlots)
	}
	return s
}

func (s *SlotState) addOnFloor(block domain.Block, delta int) {
	for slot := block.Start; slot < block.End; slot++ {
		s.OnFloorCount[slot] += delta
	}
}

func (s *SlotState) addOnLunch(block domain.Block, delta int) {
	for slot := block.Start; slot < block.End; slot++ {
		s.OnLunchCount[slot] += delta
	}
}

func (s *SlotState) addOnBreak(block domain.Block, delta int) {
	for slot := block.Start; slot < block.End; slot++ {
		s.OnBreakCount[slot] += delta
	}
}

func (s *SlotState) addRole(role domain.Role, block domain.Block, delta int) {
	counts := s.RoleCounts[role]
	for slot := block.Start; slot < block.End; slot++ {
		counts[slot] += delta
	}
}

// blockState tracks how many shifts have started within each configured
// shift block (e.g. morning/day/closing), used only when the request
// carries ShiftBlockConfig entries.
type blockState struct {
	counts map[string]int
}

func newBlockState() *blockState {
	return &blockState{counts: make(map[string]int)}
}

func (b *blockState) blockFor(slot int, blocks []domain.ShiftBlockConfig) (domain.ShiftBlockConfig, bool) {
	for _, cfg := range blocks {
		if slot >= cfg.Start && slot < cfg.End {
			return cfg, true
		}
	}
	return domain.ShiftBlockConfig{}, false
}

// startState tracks how many shifts have started at each specific slot,
// used only when the request carries ShiftStartConfig entries.
type startState struct {
	counts map[int]int
}

func newStartState() *startState {
	return &startState{counts: make(map[int]int)}
}
