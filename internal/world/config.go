package world

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/physics"
)

const (
	DefaultG  = 100.0
	DefaultDT = 0.1
)

// CollisionPolicy selects the contact test between two bodies. Both
// policies compare the centre distance with the plain sum of the radii;
// neither clamps the gravity distance.
type CollisionPolicy int

const (
	// CollideStrict treats a pair as colliding when dist < r1+r2.
	CollideStrict CollisionPolicy = iota
	// CollideInclusive treats a pair as colliding when dist <= r1+r2.
	CollideInclusive
)

func (c CollisionPolicy) String() string {
	switch c {
	case CollideStrict:
		return "strict"
	case CollideInclusive:
		return "inclusive"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", int(c))
	}
}

func (c CollisionPolicy) touching(dist, reach float64) bool {
	if c == CollideInclusive {
		return dist <= reach
	}
	return dist < reach
}

// ParseCollisionPolicy maps "strict" or "inclusive" to a policy. The empty
// string selects CollideStrict.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CollideStrict, nil
	case "inclusive":
		return CollideInclusive, nil
	default:
		return 0, fmt.Errorf("%w: unknown collision policy %q", ErrInvalidConfig, s)
	}
}

// Config is fixed for the lifetime of a World.
type Config struct {
	G         float64
	DT        float64
	Collision CollisionPolicy
	Path      physics.PathPolicy
}

func DefaultConfig() Config {
	return Config{
		G:         DefaultG,
		DT:        DefaultDT,
		Collision: CollideStrict,
		Path:      physics.PathSparse,
	}
}

func (c Config) Validate() error {
	if !(c.DT > 0) || math.IsInf(c.DT, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrInvalidConfig, c.DT)
	}
	if math.IsNaN(c.G) || math.IsInf(c.G, 0) {
		return fmt.Errorf("%w: g must be finite, got %v", ErrInvalidConfig, c.G)
	}
	if c.Collision != CollideStrict && c.Collision != CollideInclusive {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Collision)
	}
	if c.Path != physics.PathSparse && c.Path != physics.PathEvery {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Path)
	}
	return nil
}
