package world

import (
	"math"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vector"
)

// BodyState is a read-only copy of one body.
type BodyState struct {
	Name     string
	Color    string
	Mass     float64
	Radius   float64
	Position vector.Vec2
	Velocity vector.Vec2
	Force    vector.Vec2
	Path     []vector.Vec2
}

// Snapshot is a consistent copy of the World taken between steps.
type Snapshot struct {
	Step int
	Time float64
	G    float64
	// Collisions is the number of pairs resolved as collisions by the step
	// that produced this snapshot.
	Collisions int
	Bodies     []BodyState
}

// Snapshot copies every body including its recorded path.
func (w *World) Snapshot() Snapshot {
	return w.snapshot(true)
}

// State is Snapshot without paths, for per-step observers that do not draw.
func (w *World) State() Snapshot {
	return w.snapshot(false)
}

func (w *World) snapshot(paths bool) Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := Snapshot{
		Step:       w.steps,
		Time:       float64(w.steps) * w.cfg.DT,
		G:          w.cfg.G,
		Collisions: w.collisions,
		Bodies:     make([]BodyState, len(w.bodies)),
	}
	for i, b := range w.bodies {
		s.Bodies[i] = stateOf(b, paths)
	}
	return s
}

func stateOf(b *physics.Body, paths bool) BodyState {
	st := BodyState{
		Name:     b.Name,
		Color:    b.Color,
		Mass:     b.Mass,
		Radius:   b.Radius,
		Position: b.Position,
		Velocity: b.Velocity,
		Force:    b.Force,
	}
	if paths {
		st.Path = make([]vector.Vec2, len(b.Path))
		copy(st.Path, b.Path)
	}
	return st
}

// Momentum returns the total linear momentum Σ m·v.
func (s Snapshot) Momentum() vector.Vec2 {
	p := vector.Zero
	for _, b := range s.Bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

// KineticEnergy returns Σ ½·m·|v|².
func (s Snapshot) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range s.Bodies {
		ke += 0.5 * b.Mass * b.Velocity.SquaredMagnitude()
	}
	return ke
}

// PotentialEnergy returns Σ G·m_a·m_b·ln(r) over all pairs, the potential
// of the inverse-linear force law. Its zero is at r = 1.
func (s Snapshot) PotentialEnergy() float64 {
	pe := 0.0
	physics.Pairs(len(s.Bodies), func(i, j int) {
		a, b := s.Bodies[i], s.Bodies[j]
		r := a.Position.Sub(b.Position).Magnitude()
		pe += s.G * a.Mass * b.Mass * math.Log(r)
	})
	return pe
}

// Energy returns kinetic plus potential energy.
func (s Snapshot) Energy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

// Bounds returns the axis-aligned box holding every body disc and path
// point. ok is false for an empty snapshot.
func (s Snapshot) Bounds() (lo, hi vector.Vec2, ok bool) {
	grow := func(p vector.Vec2, r float64) {
		if !ok {
			lo, hi, ok = vector.New(p.X-r, p.Y-r), vector.New(p.X+r, p.Y+r), true
			return
		}
		lo = vector.New(math.Min(lo.X, p.X-r), math.Min(lo.Y, p.Y-r))
		hi = vector.New(math.Max(hi.X, p.X+r), math.Max(hi.Y, p.Y+r))
	}
	for _, b := range s.Bodies {
		grow(b.Position, b.Radius)
		for _, p := range b.Path {
			grow(p, 0)
		}
	}
	return lo, hi, ok
}
