// Package render declares the contract for turning a solved schedule into
// a caller-facing artifact (PDF, printable text, and similar). No
// implementation ships: PDF and debug-text rendering are out of scope for
// this engine, but call sites need a stable interface to compile against.
package render

import (
	"github.com/fulfillhq/shiftplan/internal/scheduling/domain"
)

// Renderer turns a solved weekly schedule into an output artifact.
type Renderer interface {
	Render(schedule *domain.WeeklySchedule) ([]byte, error)
}
