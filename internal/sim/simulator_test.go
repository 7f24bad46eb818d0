package sim_test

import (
	"bytes"
	"context"
	"errors"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
)

type countingMetric struct {
	observed int
	resets   int
}

func (c *countingMetric) Name() string           { return "count" }
func (c *countingMetric) Observe(world.Snapshot) { c.observed++ }
func (c *countingMetric) Value() float64         { return float64(c.observed) }
func (c *countingMetric) Reset()                 { c.observed = 0; c.resets++ }

func presetWorld(name string) *world.World {
	w, err := config.GetPreset(name).NewWorld()
	Expect(err).NotTo(HaveOccurred())
	return w
}

func faultingWorld() *world.World {
	a, err := physics.NewBody("a", 1, 0, "white")
	Expect(err).NotTo(HaveOccurred())
	b, err := physics.NewBody("b", 1, 0, "white")
	Expect(err).NotTo(HaveOccurred())
	a.Init(vector.New(5, 5), vector.Zero)
	b.Init(vector.New(5, 5), vector.Zero)
	w, err := world.New(world.DefaultConfig(), a, b)
	Expect(err).NotTo(HaveOccurred())
	return w
}

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	It("steps the world and samples every step by default", func() {
		w := presetWorld("three")
		res, err := sim.New(w).Run(ctx, 10)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Steps).To(Equal(10))
		Expect(w.Steps()).To(Equal(10))
		Expect(res.Samples).To(HaveLen(11))
		Expect(res.Samples[0].Step).To(Equal(0))
		Expect(res.Samples[10].Step).To(Equal(10))
		Expect(res.Final.Step).To(Equal(10))
	})

	It("matches a hand-stepped world", func() {
		a, b := presetWorld("three"), presetWorld("three")
		for i := 0; i < 25; i++ {
			Expect(a.Step()).To(Succeed())
		}
		res, err := sim.New(b).Run(ctx, 25)
		Expect(err).NotTo(HaveOccurred())

		want := a.State()
		for i, body := range res.Final.Bodies {
			Expect(body.Position).To(Equal(want.Bodies[i].Position))
			Expect(body.Velocity).To(Equal(want.Bodies[i].Velocity))
		}
	})

	It("records the analytic first step of the two-body scenario", func() {
		w := presetWorld("three")
		res, err := sim.New(w).Run(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		one := res.Samples[1].Bodies[0]
		Expect(one.Name).To(Equal("one"))
		Expect(one.Position.X).To(BeNumerically(">", 351.9))
	})

	It("samples at the configured interval", func() {
		res, err := sim.New(presetWorld("three"), sim.WithSampleEvery(3)).Run(ctx, 10)
		Expect(err).NotTo(HaveOccurred())

		steps := make([]int, 0, len(res.Samples))
		for _, s := range res.Samples {
			steps = append(steps, s.Step)
		}
		Expect(steps).To(Equal([]int{0, 3, 6, 9}))
	})

	It("keeps paths only in the final snapshot", func() {
		res, err := sim.New(presetWorld("planets")).Run(ctx, 5)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Samples[5].Bodies[0].Path).To(BeNil())
		Expect(res.Final.Bodies[0].Path).To(HaveLen(6))
	})

	It("resets metrics and observes the start and every step", func() {
		m := &countingMetric{}
		var seen []int
		s := sim.New(presetWorld("three"),
			sim.WithMetrics(m),
			sim.WithObserver(sim.ObserverFunc(func(st world.Snapshot) {
				seen = append(seen, st.Step)
			})),
		)

		res, err := s.Run(ctx, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.resets).To(Equal(1))
		Expect(res.Metrics).To(HaveKeyWithValue("count", 5.0))
		Expect(seen).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("reports the built-in metrics", func() {
		res, err := sim.New(presetWorld("headon"),
			sim.WithMetrics(metrics.NewMomentum(), metrics.NewEnergy(), metrics.NewCollisions(), metrics.NewMinSeparation()),
		).Run(ctx, 150)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Collisions).To(BeNumerically(">=", 1))
		Expect(res.Metrics).To(HaveKeyWithValue("collisions", float64(res.Collisions)))
		Expect(res.Metrics["momentum_drift"]).To(BeNumerically("~", 0, 1e-9))
		Expect(res.Metrics["min_separation"]).To(BeNumerically("<", 0))
	})

	It("accepts zero steps", func() {
		res, err := sim.New(presetWorld("three")).Run(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(BeZero())
		Expect(res.Samples).To(HaveLen(1))
	})

	DescribeTable("rejects invalid runs",
		func(steps, every int) {
			_, err := sim.New(presetWorld("three"), sim.WithSampleEvery(every)).Run(ctx, steps)
			Expect(err).To(HaveOccurred())
		},
		Entry("negative steps", -1, 1),
		Entry("zero sample interval", 10, 0),
	)

	It("stops on a fault and returns the partial result", func() {
		var buf bytes.Buffer
		logger := log.New(&buf)

		res, err := sim.New(faultingWorld(), sim.WithLogger(logger)).Run(ctx, 10)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, world.ErrDiverged)).To(BeTrue())

		var fault *world.FaultError
		Expect(errors.As(err, &fault)).To(BeTrue())
		Expect(fault.Step).To(Equal(1))

		Expect(res).NotTo(BeNil())
		Expect(res.Steps).To(Equal(1))
		Expect(res.Steps).To(Equal(res.Final.Step))
		Expect(res.Samples).To(HaveLen(1))
		Expect(buf.String()).To(ContainSubstring("run stopped"))
	})

	It("honours a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := sim.New(presetWorld("three")).Run(cctx, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Steps).To(BeZero())
	})

	It("stops partway when an observer cancels", func() {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		s := sim.New(presetWorld("three"), sim.WithObserver(sim.ObserverFunc(func(st world.Snapshot) {
			if st.Step == 7 {
				cancel()
			}
		})))
		res, err := s.Run(cctx, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Steps).To(Equal(7))
		Expect(res.Final.Step).To(Equal(7))
	})
})

var _ = Describe("Result", func() {
	It("extracts one body's sampled positions", func() {
		res, err := sim.New(presetWorld("three")).Run(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())

		xs, ys, ok := res.Body("two")
		Expect(ok).To(BeTrue())
		Expect(xs).To(HaveLen(4))
		Expect(ys[0]).To(Equal(550.0))

		_, _, ok = res.Body("missing")
		Expect(ok).To(BeFalse())
	})
})
