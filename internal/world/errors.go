package world

import (
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/vector"
)

var (
	// ErrInvalidConfig indicates a non-positive or non-finite timestep, a
	// non-finite gravitational constant, or an unknown policy.
	ErrInvalidConfig = errors.New("world: invalid configuration")

	// ErrNilBody indicates a nil entry in a body collection.
	ErrNilBody = errors.New("world: nil body")

	// ErrDiverged indicates a body position or velocity became NaN or Inf.
	ErrDiverged = errors.New("world: simulation diverged (NaN or Inf detected)")
)

// FaultError records the first body found in a non-finite state.
type FaultError struct {
	Step     int
	Body     string
	Position vector.Vec2
	Velocity vector.Vec2
	Wrapped  error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("step %d: body %q at %v moving %v: %v",
		e.Step, e.Body, e.Position, e.Velocity, e.Wrapped)
}

func (e *FaultError) Unwrap() error {
	return e.Wrapped
}
