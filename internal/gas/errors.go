package gas

import (
	"errors"
	"fmt"
)

// Domain errors for the collision engine.
var (
	// ErrInvalidConfig indicates a construction parameter outside its
	// valid range.
	ErrInvalidConfig = errors.New("gas: invalid configuration")

	// ErrPlacement indicates no non-overlapping placement was found
	// within the attempt budget.
	ErrPlacement = errors.New("gas: no feasible non-overlapping placement")

	// ErrDegenerateGeometry indicates resolution was invoked on
	// coincident centers (zero-length collision normal).
	ErrDegenerateGeometry = errors.New("gas: degenerate geometry (coincident centers)")

	// ErrInvalidState indicates a NaN/Inf position or velocity, or a
	// violated non-penetration invariant.
	ErrInvalidState = errors.New("gas: invalid state")

	// ErrNotInitialised indicates stepping before Initialise.
	ErrNotInitialised = errors.New("gas: engine not initialised")

	// ErrFinished indicates stepping after the terminal
	// no-further-collisions state was reached.
	ErrFinished = errors.New("gas: simulation finished")
)

// StepError wraps an error with the collision count and clock at which
// it occurred.
type StepError struct {
	Collision int
	Clock     float64
	Wrapped   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("collision %d (t=%.6f): %v", e.Collision, e.Clock, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
