package samplegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillhq/shiftplan/internal/samplegen"
)

func TestAssociates_SameSeedIsDeterministic(t *testing.T) {
	dates := []string{"2026-08-03", "2026-08-04"}

	a := samplegen.NewGenerator(42).Associates(10, dates)
	b := samplegen.NewGenerator(42).Associates(10, dates)

	require.Len(t, a, 10)
	require.Len(t, b, 10)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Name, b[i].Name)
	}
}

func TestAssociates_DifferentSeedsDiffer(t *testing.T) {
	dates := []string{"2026-08-03"}

	a := samplegen.NewGenerator(1).Associates(5, dates)
	b := samplegen.NewGenerator(2).Associates(5, dates)

	allSame := true
	for i := range a {
		if a[i].ID != b[i].ID {
			allSame = false
		}
	}
	assert.False(t, allSame)
}

func TestAssociates_VariesAvailabilityByIndex(t *testing.T) {
	dates := []string{"2026-08-03"}
	workers := samplegen.NewGenerator(7).Associates(5, dates)

	require.Len(t, workers, 5)
	seen := make(map[int]bool)
	for _, w := range workers {
		seen[w.Availability["2026-08-03"].Start] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestAssociates_AppliesRoleRestrictions(t *testing.T) {
	dates := []string{"2026-08-03"}
	workers := samplegen.NewGenerator(3).Associates(11, dates)

	// worker index 7 (0-based) is the 8th associate: i%7==0 forbids BACKROOM
	foundForbidden := false
	for _, w := range workers {
		if len(w.ForbiddenRoles) > 0 {
			foundForbidden = true
		}
	}
	assert.True(t, foundForbidden)
}
