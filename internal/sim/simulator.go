package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravsim/internal/world"
)

type Simulator struct {
	world       *world.World
	metrics     []Metric
	observers   []Observer
	sampleEvery int
	logger      *log.Logger
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithMetrics(ms ...Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, ms...) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

// WithSampleEvery sets the sampling interval in steps.
func WithSampleEvery(n int) Option {
	return func(s *Simulator) { s.sampleEvery = n }
}

func New(w *world.World, opts ...Option) *Simulator {
	s := &Simulator{
		world:       w,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
		sampleEvery: 1,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *world.World { return s.world }

// Run advances the World by steps steps. Metrics and observers see the
// starting state and then every post-step state. On a fault or a cancelled
// context the partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if err := s.validate(steps); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]world.Snapshot, 0, steps/s.sampleEvery+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.world.State()
	s.observe(start)
	result.Samples = append(result.Samples, start)

	s.logger.Debug("run started", "steps", steps, "bodies", len(start.Bodies), "g", start.G)

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			s.logger.Warn("run cancelled", "step", result.Steps)
			break
		}

		if err := s.world.Step(); err != nil {
			// The faulting step is committed; count it but keep the
			// non-finite state away from metrics and observers.
			result.Steps++
			s.logger.Error("run stopped", "step", result.Steps, "err", err)
			runErr = fmt.Errorf("run: %w", err)
			break
		}

		st := s.world.State()
		s.observe(st)
		result.Steps++
		result.Collisions += st.Collisions
		if st.Collisions > 0 {
			s.logger.Debug("collision", "step", st.Step, "pairs", st.Collisions)
		}
		if result.Steps%s.sampleEvery == 0 {
			result.Samples = append(result.Samples, st)
		}
	}

	result.Final = s.world.Snapshot()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr == nil {
		s.logger.Info("run complete", "steps", result.Steps, "collisions", result.Collisions)
	}
	return result, runErr
}

func (s *Simulator) observe(st world.Snapshot) {
	for _, m := range s.metrics {
		m.Observe(st)
	}
	for _, obs := range s.observers {
		obs.OnStep(st)
	}
}

func (s *Simulator) validate(steps int) error {
	if s.world == nil {
		return fmt.Errorf("simulator has no world")
	}
	if steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", steps)
	}
	if s.sampleEvery < 1 {
		return fmt.Errorf("sample interval must be at least 1, got %d", s.sampleEvery)
	}
	return nil
}
