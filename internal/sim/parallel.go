package sim

import (
	"context"
	"runtime"

	"github.com/san-kum/gravsim/internal/world"
	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh World for one ensemble member with the given G.
type Factory func(g float64) (*world.World, error)

// Member is one run of an ensemble. Err holds a fault that stopped the run
// early; Result is then partial.
type Member struct {
	G      float64
	Result *Result
	Err    error
}

// Ensemble runs one scenario under several gravitational constants, each on
// its own World.
type Ensemble struct {
	factory Factory
	metrics func() []Metric
	opts    []Option
	limit   int
}

// NewEnsemble builds an ensemble. metrics is called once per member so no
// Metric is shared between goroutines.
func NewEnsemble(factory Factory, metrics func() []Metric, opts ...Option) *Ensemble {
	return &Ensemble{
		factory: factory,
		metrics: metrics,
		opts:    opts,
		limit:   runtime.NumCPU(),
	}
}

// SetLimit bounds the number of concurrent runs. n < 1 means no limit.
func (e *Ensemble) SetLimit(n int) {
	if n < 1 {
		n = -1
	}
	e.limit = n
}

// Run returns one Member per value of gs, in the same order. A World that
// cannot be built or a cancelled context aborts the whole ensemble.
func (e *Ensemble) Run(ctx context.Context, gs []float64, steps int) ([]Member, error) {
	members := make([]Member, len(gs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, gv := range gs {
		g.Go(func() error {
			w, err := e.factory(gv)
			if err != nil {
				return err
			}

			opts := append([]Option{}, e.opts...)
			if e.metrics != nil {
				opts = append(opts, WithMetrics(e.metrics()...))
			}

			res, err := New(w, opts...).Run(ctx, steps)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			members[i] = Member{G: gv, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}
