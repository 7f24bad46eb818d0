package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/vector"
)

// PathPolicy decides when a body appends its position to its path.
type PathPolicy int

const (
	// PathSparse records a point only once the body has moved more than its
	// own radius away from the last recorded point.
	PathSparse PathPolicy = iota
	// PathEvery records a point after every step.
	PathEvery
)

func (p PathPolicy) String() string {
	switch p {
	case PathSparse:
		return "sparse"
	case PathEvery:
		return "every"
	default:
		return fmt.Sprintf("PathPolicy(%d)", int(p))
	}
}

// ParsePathPolicy maps "sparse" or "every" to a PathPolicy. The empty
// string selects PathSparse.
func ParsePathPolicy(s string) (PathPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sparse":
		return PathSparse, nil
	case "every":
		return PathEvery, nil
	default:
		return 0, fmt.Errorf("unknown path policy: %s", s)
	}
}

// Body is a point mass with a collision radius.
type Body struct {
	Name   string
	Mass   float64
	Radius float64
	Color  string

	Position vector.Vec2
	Velocity vector.Vec2
	// Force is the net force applied by the most recent Integrate call.
	Force vector.Vec2
	// Path holds recorded positions, oldest first. It starts with the
	// position given to Init and only grows.
	Path []vector.Vec2
}

// NewBody validates mass and radius and returns a body at rest at the
// origin. Call Init to place it.
func NewBody(name string, mass, radius float64, color string) (*Body, error) {
	b := &Body{
		Name:   name,
		Mass:   mass,
		Radius: radius,
		Color:  color,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.Init(vector.Zero, vector.Zero)
	return b, nil
}

// Validate checks mass and radius. Bodies built as literals bypass
// NewBody, so anything taking ownership of bodies calls it again.
func (b *Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("body %q: %w (got %v)", b.Name, ErrInvalidMass, b.Mass)
	}
	if !(b.Radius >= 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("body %q: %w (got %v)", b.Name, ErrInvalidRadius, b.Radius)
	}
	return nil
}

// Init sets position and velocity, clears the force and restarts the path
// at pos.
func (b *Body) Init(pos, vel vector.Vec2) {
	b.Position = pos
	b.Velocity = vel
	b.Force = vector.Zero
	b.Path = []vector.Vec2{pos}
}

// Integrate advances the body by dt under the net force f using
// semi-implicit Euler: velocity first, then position from the new velocity.
func (b *Body) Integrate(f vector.Vec2, dt float64, policy PathPolicy) {
	b.Force = f
	acc := f.Scale(1 / b.Mass)
	b.Velocity = b.Velocity.Add(acc.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.record(policy)
}

func (b *Body) record(policy PathPolicy) {
	if len(b.Path) == 0 || policy == PathEvery {
		b.Path = append(b.Path, b.Position)
		return
	}
	last := b.Path[len(b.Path)-1]
	if b.Position.Sub(last).SquaredMagnitude() > b.Radius*b.Radius {
		b.Path = append(b.Path, b.Position)
	}
}

// CollisionVelocity returns b's velocity after an elastic collision with
// other, resolved along the line between their centres. Neither body is
// modified. Coincident centres divide by zero and yield NaN.
func (b *Body) CollisionVelocity(other *Body) vector.Vec2 {
	m := 2 * other.Mass / (b.Mass + other.Mass)
	dx := b.Position.Sub(other.Position)
	dx2 := dx.SquaredMagnitude()
	dv := b.Velocity.Sub(other.Velocity)
	return b.Velocity.Sub(dx.Scale(m * dv.Dot(dx) / dx2))
}

// Momentum returns m·v.
func (b *Body) Momentum() vector.Vec2 {
	return b.Velocity.Scale(b.Mass)
}

// KineticEnergy returns ½·m·|v|².
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.SquaredMagnitude()
}

// IsFinite reports whether position and velocity are free of NaN and Inf.
func (b *Body) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite()
}

// Clone returns a deep copy; the path slice is not shared.
func (b *Body) Clone() *Body {
	c := *b
	c.Path = make([]vector.Vec2, len(b.Path))
	copy(c.Path, b.Path)
	return &c
}
