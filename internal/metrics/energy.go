package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
)

// Energy tracks the largest relative drift of total energy from the first
// observed snapshot.
type Energy struct {
	name     string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy_drift"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s world.Snapshot) {
	energy := s.Energy()

	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++

	e.maxDrift = math.Max(e.maxDrift, drift(e.initial, energy))
}

func (e *Energy) Value() float64 {
	return e.maxDrift
}

// Current returns the energy of the last observed snapshot.
func (e *Energy) Current() float64 {
	return e.current
}

func (e *Energy) Reset() {
	e.initial = 0
	e.current = 0
	e.maxDrift = 0
	e.samples = 0
}

// Momentum tracks the largest drift of total momentum, relative to the
// magnitude first observed.
type Momentum struct {
	name     string
	initial  vector.Vec2
	maxDrift float64
	samples  int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum_drift"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s world.Snapshot) {
	p := s.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	d := p.Sub(m.initial).Magnitude()
	if ref := m.initial.Magnitude(); ref != 0 {
		d /= ref
	}
	m.maxDrift = math.Max(m.maxDrift, d)
}

func (m *Momentum) Value() float64 {
	return m.maxDrift
}

func (m *Momentum) Reset() {
	m.initial = vector.Zero
	m.maxDrift = 0
	m.samples = 0
}

// drift is |v - ref| / |ref|, or the absolute difference when ref is zero.
func drift(ref, v float64) float64 {
	d := math.Abs(v - ref)
	if ref != 0 {
		d /= math.Abs(ref)
	}
	return d
}
