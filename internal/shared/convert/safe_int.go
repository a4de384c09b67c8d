// Package convert provides safe numeric conversions used when handing slot
// counts and role caps to the MIP solver's int32/float64 APIs.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32 safely converts an int to int32, returning an error if overflow occurs.
func IntToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// IntToInt32Safe safely converts an int to int32, panicking if overflow occurs.
// Use this only for values that are guaranteed by construction to be within
// bounds, such as slot indices derived from a day's total_slots.
func IntToInt32Safe(v int) int32 {
	if v > math.MaxInt32 || v < math.MinInt32 {
		panic(fmt.Sprintf("integer overflow: %d cannot be converted to int32", v))
	}
	return int32(v)
}
