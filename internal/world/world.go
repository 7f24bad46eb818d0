package world

import (
	"fmt"
	"sync"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vector"
)

type World struct {
	mu         sync.RWMutex
	cfg        Config
	bodies     []*physics.Body
	steps      int
	collisions int
	fault      error
}

// New validates cfg and returns a World that takes ownership of bodies.
// Insertion order is iteration order.
func New(cfg Config, bodies ...*physics.Body) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{cfg: cfg}
	if err := w.Reset(bodies); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) Config() Config { return w.cfg }

// Reset replaces the whole body set, zeroes the step counter and clears any
// fault. The World takes ownership of bodies.
func (w *World) Reset(bodies []*physics.Body) error {
	for i, b := range bodies {
		if b == nil {
			return fmt.Errorf("%w at index %d", ErrNilBody, i)
		}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	owned := make([]*physics.Body, len(bodies))
	copy(owned, bodies)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.bodies = owned
	w.steps = 0
	w.collisions = 0
	w.fault = nil
	return nil
}

// Step advances every body by Config.DT. It returns a *FaultError if the
// step left any body in a non-finite state, and keeps returning it until
// Reset without advancing further.
func (w *World) Step() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fault != nil {
		return w.fault
	}

	n := len(w.bodies)
	forces := make([]vector.Vec2, n)
	kicks := make([]vector.Vec2, n)
	hit := make([]bool, n)
	collisions := 0

	// Nothing is written to the bodies during the pair pass, so every pair
	// sees pre-step positions and velocities.
	physics.Pairs(n, func(i, j int) {
		a, b := w.bodies[i], w.bodies[j]
		delta := a.Position.Sub(b.Position)
		dist := delta.Magnitude()

		if w.cfg.Collision.touching(dist, a.Radius+b.Radius) {
			kicks[i] = kicks[i].Add(a.CollisionVelocity(b).Sub(a.Velocity))
			kicks[j] = kicks[j].Add(b.CollisionVelocity(a).Sub(b.Velocity))
			hit[i], hit[j] = true, true
			collisions++
			return
		}

		f := delta.Unit().Scale(-w.cfg.G * a.Mass * b.Mass / dist)
		forces[i] = forces[i].Add(f)
		forces[j] = forces[j].Sub(f)
	})

	for i, b := range w.bodies {
		if hit[i] {
			b.Velocity = b.Velocity.Add(kicks[i])
		}
		b.Integrate(forces[i], w.cfg.DT, w.cfg.Path)
	}

	w.steps++
	w.collisions = collisions

	for _, b := range w.bodies {
		if !b.IsFinite() {
			w.fault = &FaultError{
				Step:     w.steps,
				Body:     b.Name,
				Position: b.Position,
				Velocity: b.Velocity,
				Wrapped:  ErrDiverged,
			}
			return w.fault
		}
	}
	return nil
}

// Err returns the fault that stopped the World, or nil.
func (w *World) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fault
}

func (w *World) Steps() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.steps
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Time returns simulated seconds since the last Reset.
func (w *World) Time() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return float64(w.steps) * w.cfg.DT
}
