// Package samplegen builds synthetic worker rosters for the CLI demo
// commands, which need something to schedule without requiring a caller to
// hand-author a roster first.
package samplegen

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

// names is the pool of sample worker names, cycled and suffixed once
// exhausted.
var names = []string{
	"Alice", "Bob", "Carol", "David", "Eve", "Frank", "Grace", "Henry",
	"Ivy", "Jack", "Kate", "Leo", "Mia", "Noah", "Olivia", "Paul",
	"Quinn", "Rose", "Sam", "Tina", "Uma", "Victor", "Wendy", "Xavier",
	"Yara", "Zach", "Amy", "Ben", "Chloe", "Dan", "Emma", "Finn",
	"Gina", "Hugo", "Iris", "Jake", "Kim", "Luke", "Maya", "Nate",
}

// Generator builds sample rosters from a seeded, reproducible random source
// so CLI demos with the same --seed produce the same schedule.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded for reproducible output. The same
// seed always produces the same roster.
func NewGenerator(seed int64) Generator {
	return Generator{rng: rand.New(rand.NewSource(seed))}
}

// Associates builds count sample workers with varied shift-pattern
// availability, role restrictions, and preferences across dates.
func (g Generator) Associates(count int, dates []string) []domain.Worker {
	if len(dates) == 0 {
		dates = []string{"today"}
	}

	fullDay := domain.Availability{Start: 0, End: 68}
	earlyShift := domain.Availability{Start: 0, End: 40}
	midShift := domain.Availability{Start: 12, End: 52}
	lateShift := domain.Availability{Start: 28, End: 68}

	workers := make([]domain.Worker, 0, count)
	for i := 0; i < count; i++ {
		name := names[i%len(names)]
		if i >= len(names) {
			name = name + "-" + itoa(i/len(names)+1)
		}

		availability := make(map[string]domain.Availability, len(dates))
		for _, d := range dates {
			var avail domain.Availability
			switch i % 5 {
			case 0:
				avail = earlyShift
			case 1:
				avail = midShift
			case 2:
				avail = lateShift
			default:
				avail = fullDay
			}

			if i%6 == 0 && isWeekdayIndex(d, 0) { // Mondays off for some
				avail = domain.OffAvailability()
			}
			if i%8 == 0 && isWeekdayIndex(d, 4) { // Fridays off for some
				avail = domain.OffAvailability()
			}

			availability[d] = avail
		}

		allowedRoles := make(map[domain.Role]bool, len(domain.AllRoles))
		for _, r := range domain.AllRoles {
			allowedRoles[r] = true
		}

		forbiddenRoles := make(map[domain.Role]bool)
		if i%7 == 0 {
			forbiddenRoles[domain.RoleBackroom] = true
		}
		if i%11 == 0 {
			forbiddenRoles[domain.RoleGMDSM] = true
		}

		preferences := make(map[domain.Role]domain.Preference)
		if i%3 == 0 {
			preferences[domain.RolePicking] = domain.PreferencePrefer
		}
		if i%4 == 0 {
			preferences[domain.RoleBackroom] = domain.PreferenceAvoid
		}

		workers = append(workers, domain.Worker{
			ID:                g.workerID(i),
			Name:              name,
			Availability:      availability,
			MaxMinutesPerDay:  480,
			MaxMinutesPerWeek: 2400,
			AllowedRoles:      allowedRoles,
			ForbiddenRoles:    forbiddenRoles,
			RolePreferences:   preferences,
		})
	}

	return workers
}

// workerID derives a deterministic UUID for the i-th worker from the
// generator's seeded random source, so --seed reproduces identical ids
// across runs.
func (g Generator) workerID(i int) string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return "worker-" + itoa(i)
	}
	return id.String()
}

func isWeekdayIndex(date string, weekday int) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	iso := (int(t.Weekday()) + 6) % 7
	return iso == weekday
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
