package physics

import "errors"

// Construction errors. A body that fails validation is never created, so
// the integrator can divide by mass without checking it.
var (
	// ErrInvalidMass indicates a mass that is zero, negative or not finite.
	ErrInvalidMass = errors.New("physics: mass must be positive and finite")

	// ErrInvalidRadius indicates a negative or non-finite radius.
	ErrInvalidRadius = errors.New("physics: radius must be non-negative and finite")
)
