package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/world"
)

func presetFactory(name string) sim.Factory {
	return func(g float64) (*world.World, error) {
		cfg := config.GetPreset(name)
		cfg.G = g
		return cfg.NewWorld()
	}
}

func driftMetrics() []sim.Metric {
	return []sim.Metric{metrics.NewEnergy(), metrics.NewCollisions()}
}

var _ = Describe("Ensemble", func() {
	ctx := context.Background()

	It("returns one member per G in input order", func() {
		e := sim.NewEnsemble(presetFactory("three"), driftMetrics)
		e.SetLimit(2)

		gs := []float64{50, 100, 200, 0}
		members, err := e.Run(ctx, gs, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(members).To(HaveLen(len(gs)))

		for i, m := range members {
			Expect(m.G).To(Equal(gs[i]))
			Expect(m.Err).NotTo(HaveOccurred())
			Expect(m.Result.Steps).To(Equal(20))
			Expect(m.Result.Final.G).To(Equal(gs[i]))
			Expect(m.Result.Metrics).To(HaveKey("energy_drift"))
		}
	})

	It("matches a sequential run for each member", func() {
		members, err := sim.NewEnsemble(presetFactory("binary"), nil).Run(ctx, []float64{100, 150}, 30)
		Expect(err).NotTo(HaveOccurred())

		for _, m := range members {
			w, err := presetFactory("binary")(m.G)
			Expect(err).NotTo(HaveOccurred())
			want, err := sim.New(w).Run(ctx, 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Result.Final.Bodies[0].Position).To(Equal(want.Final.Bodies[0].Position))
		}
	})

	It("aborts when a world cannot be built", func() {
		bad := errors.New("no world")
		factory := func(g float64) (*world.World, error) {
			if g < 0 {
				return nil, bad
			}
			return presetFactory("three")(g)
		}

		_, err := sim.NewEnsemble(factory, nil).Run(ctx, []float64{100, -1}, 10)
		Expect(err).To(MatchError(bad))
	})

	It("keeps a faulted member without failing the ensemble", func() {
		faulty := faultingWorld()
		factory := func(g float64) (*world.World, error) {
			if g == 1 {
				return faulty, nil
			}
			return presetFactory("three")(g)
		}

		e := sim.NewEnsemble(factory, nil)
		e.SetLimit(0)
		members, err := e.Run(ctx, []float64{100, 1}, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(members[0].Err).NotTo(HaveOccurred())
		Expect(errors.Is(members[1].Err, world.ErrDiverged)).To(BeTrue())
		Expect(members[1].Result).NotTo(BeNil())
	})

	It("returns the context error when cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := sim.NewEnsemble(presetFactory("three"), nil).Run(cctx, []float64{100}, 10)
		Expect(err).To(MatchError(context.Canceled))
	})
})
