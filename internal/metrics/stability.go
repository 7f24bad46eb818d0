package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/world"
)

// Collisions counts the pairs resolved as collisions over a run.
type Collisions struct {
	name  string
	total int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(s world.Snapshot) {
	c.total += s.Collisions
}

func (c *Collisions) Value() float64 {
	return float64(c.total)
}

func (c *Collisions) Reset() {
	c.total = 0
}

// MinSeparation records the closest surface-to-surface approach of any
// pair. Overlapping discs give a negative value.
type MinSeparation struct {
	name string
	min  float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(s world.Snapshot) {
	physics.Pairs(len(s.Bodies), func(i, j int) {
		a, b := s.Bodies[i], s.Bodies[j]
		gap := a.Position.Sub(b.Position).Magnitude() - a.Radius - b.Radius
		m.min = math.Min(m.min, gap)
	})
}

// Value is 0 until a snapshot with at least two bodies has been observed.
func (m *MinSeparation) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = math.Inf(1)
}
