package sim

import "github.com/san-kum/gravsim/internal/world"

type Metric interface {
	Name() string
	Observe(s world.Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s world.Snapshot)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(s world.Snapshot)

func (f ObserverFunc) OnStep(s world.Snapshot) { f(s) }

// Result is the report of one run. Samples hold path-free snapshots taken at
// step 0 and every SampleEvery steps after it; Final carries paths.
type Result struct {
	Samples    []world.Snapshot
	Metrics    map[string]float64
	Steps      int
	Collisions int
	Final      world.Snapshot
}

// Body returns the sampled positions of the named body, in sample order.
func (r *Result) Body(name string) (xs, ys []float64, ok bool) {
	for _, s := range r.Samples {
		for _, b := range s.Bodies {
			if b.Name == name {
				xs = append(xs, b.Position.X)
				ys = append(ys, b.Position.Y)
				ok = true
				break
			}
		}
	}
	return xs, ys, ok
}
