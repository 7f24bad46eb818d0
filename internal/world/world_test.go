package world_test

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
)

const tol = 1e-9

func newBody(name string, mass, radius float64, pos, vel vector.Vec2) *physics.Body {
	b, err := physics.NewBody(name, mass, radius, "white")
	Expect(err).NotTo(HaveOccurred())
	b.Init(pos, vel)
	return b
}

func newWorld(cfg world.Config, bodies ...*physics.Body) *world.World {
	w, err := world.New(cfg, bodies...)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func expectVec(got, want vector.Vec2) {
	ExpectWithOffset(1, got.X).To(BeNumerically("~", want.X, tol), "x of %v", got)
	ExpectWithOffset(1, got.Y).To(BeNumerically("~", want.Y, tol), "y of %v", got)
}

func twoBodyScenario() []*physics.Body {
	return []*physics.Body{
		newBody("one", 10, 10, vector.New(350, 150), vector.New(20, 0)),
		newBody("two", 12, 12, vector.New(350, 550), vector.New(-20, 0)),
	}
}

var _ = Describe("World", func() {
	var cfg world.Config

	BeforeEach(func() {
		cfg = world.Config{G: 100, DT: 0.1}
	})

	Describe("construction", func() {
		It("rejects a non-positive timestep", func() {
			cfg.DT = 0
			_, err := world.New(cfg)
			Expect(errors.Is(err, world.ErrInvalidConfig)).To(BeTrue())
		})

		It("rejects nil bodies", func() {
			_, err := world.New(cfg, newBody("a", 1, 1, vector.Zero, vector.Zero), nil)
			Expect(errors.Is(err, world.ErrNilBody)).To(BeTrue())
		})

		It("rejects an invalid body", func() {
			ok := newBody("ok", 1, 1, vector.New(10, 10), vector.Zero)
			zero := &physics.Body{Name: "zero", Mass: 0, Radius: 1}
			zero.Init(vector.Zero, vector.Zero)
			_, err := world.New(cfg, zero, ok)
			Expect(errors.Is(err, physics.ErrInvalidMass)).To(BeTrue())

			shrunk := &physics.Body{Name: "shrunk", Mass: 1, Radius: -3}
			shrunk.Init(vector.Zero, vector.Zero)
			_, err = world.New(cfg, ok, shrunk)
			Expect(errors.Is(err, physics.ErrInvalidRadius)).To(BeTrue())
		})

		It("keeps its bodies when a reset is rejected", func() {
			w := newWorld(cfg, twoBodyScenario()...)
			err := w.Reset([]*physics.Body{{Name: "bad", Mass: -1}})
			Expect(errors.Is(err, physics.ErrInvalidMass)).To(BeTrue())
			Expect(w.Len()).To(Equal(2))
		})

		It("steps an empty world", func() {
			w := newWorld(cfg)
			Expect(w.Step()).To(Succeed())
			Expect(w.Steps()).To(Equal(1))
			Expect(w.Snapshot().Bodies).To(BeEmpty())
		})
	})

	Describe("gravity", func() {
		It("matches the analytic two-body first step", func() {
			w := newWorld(cfg, twoBodyScenario()...)
			Expect(w.Step()).To(Succeed())

			s := w.Snapshot()
			one, two := s.Bodies[0], s.Bodies[1]

			// |F| = 100*10*12/400 = 30, pulling the bodies together along y.
			expectVec(one.Force, vector.New(0, 30))
			expectVec(two.Force, vector.New(0, -30))

			expectVec(one.Velocity, vector.New(20, 0.3))
			expectVec(one.Position, vector.New(352, 150.03))
			expectVec(two.Velocity, vector.New(-20, -0.25))
			expectVec(two.Position, vector.New(348, 549.975))

			Expect(s.Step).To(Equal(1))
			Expect(s.Time).To(BeNumerically("~", 0.1, tol))
			Expect(s.Collisions).To(BeZero())
		})

		It("uses an inverse-linear force law", func() {
			near := newWorld(cfg,
				newBody("a", 1, 0, vector.New(0, 0), vector.Zero),
				newBody("b", 1, 0, vector.New(10, 0), vector.Zero))
			far := newWorld(cfg,
				newBody("a", 1, 0, vector.New(0, 0), vector.Zero),
				newBody("b", 1, 0, vector.New(20, 0), vector.Zero))
			Expect(near.Step()).To(Succeed())
			Expect(far.Step()).To(Succeed())

			fNear := near.Snapshot().Bodies[0].Force.Magnitude()
			fFar := far.Snapshot().Bodies[0].Force.Magnitude()
			Expect(fNear).To(BeNumerically("~", 10, tol))
			Expect(fNear / fFar).To(BeNumerically("~", 2, tol))
		})

		It("conserves momentum when nothing collides", func() {
			w := newWorld(cfg,
				newBody("one", 10, 10, vector.New(350, 150), vector.New(20, 0)),
				newBody("two", 12, 12, vector.New(350, 550), vector.New(-20, 0)),
				newBody("three", 0.05, 3, vector.New(150, 350), vector.New(-12, 10)))

			p0 := w.State().Momentum()
			for i := 0; i < 50; i++ {
				Expect(w.Step()).To(Succeed())
				Expect(w.State().Collisions).To(BeZero())
				expectVec(w.State().Momentum(), p0)
			}
		})

		It("accumulates equal and opposite forces", func() {
			w := newWorld(cfg,
				newBody("a", 3, 1, vector.New(0, 0), vector.Zero),
				newBody("b", 5, 1, vector.New(40, 30), vector.Zero),
				newBody("c", 7, 1, vector.New(-60, 80), vector.Zero))
			Expect(w.Step()).To(Succeed())

			sum := vector.Zero
			for _, b := range w.Snapshot().Bodies {
				sum = sum.Add(b.Force)
			}
			expectVec(sum, vector.Zero)
		})

		It("leaves a lone stationary body untouched", func() {
			w := newWorld(cfg, newBody("still", 5, 2, vector.New(7, -3), vector.Zero))
			for i := 0; i < 100; i++ {
				Expect(w.Step()).To(Succeed())
			}
			b := w.Snapshot().Bodies[0]
			Expect(b.Position).To(Equal(vector.New(7, -3)))
			Expect(b.Velocity).To(Equal(vector.Zero))
			Expect(b.Path).To(Equal([]vector.Vec2{vector.New(7, -3)}))
		})
	})

	Describe("collisions", func() {
		It("exchanges velocities of equal masses head on", func() {
			w := newWorld(cfg,
				newBody("a", 2, 1, vector.New(0, 0), vector.New(5, 0)),
				newBody("b", 2, 1, vector.New(1, 0), vector.New(-5, 0)))
			Expect(w.Step()).To(Succeed())

			s := w.Snapshot()
			Expect(s.Collisions).To(Equal(1))
			expectVec(s.Bodies[0].Velocity, vector.New(-5, 0))
			expectVec(s.Bodies[1].Velocity, vector.New(5, 0))
			expectVec(s.Bodies[0].Force, vector.Zero)
			expectVec(s.Bodies[1].Force, vector.Zero)
			expectVec(s.Bodies[0].Position, vector.New(-0.5, 0))
			expectVec(s.Bodies[1].Position, vector.New(1.5, 0))
		})

		It("does not depend on the order of a pair", func() {
			mk := func() (*physics.Body, *physics.Body) {
				return newBody("a", 10, 10, vector.New(100, 100), vector.New(20, -3)),
					newBody("b", 12, 12, vector.New(115, 108), vector.New(-20, 5))
			}
			a1, b1 := mk()
			a2, b2 := mk()
			fwd := newWorld(cfg, a1, b1)
			rev := newWorld(cfg, b2, a2)
			Expect(fwd.Step()).To(Succeed())
			Expect(rev.Step()).To(Succeed())

			f, r := fwd.Snapshot(), rev.Snapshot()
			expectVec(f.Bodies[0].Velocity, r.Bodies[1].Velocity)
			expectVec(f.Bodies[1].Velocity, r.Bodies[0].Velocity)
			expectVec(f.Bodies[0].Position, r.Bodies[1].Position)
		})

		It("resolves several contacts of one body from pre-step state", func() {
			w := newWorld(cfg,
				newBody("left", 1, 1, vector.New(-1.5, 0), vector.New(4, 0)),
				newBody("mid", 3, 1, vector.New(0, 0), vector.Zero),
				newBody("right", 2, 1, vector.New(1.5, 0), vector.New(-4, 1)))

			p0 := w.State().Momentum()
			Expect(w.Step()).To(Succeed())

			s := w.State()
			Expect(s.Collisions).To(Equal(2))
			expectVec(s.Momentum(), p0)
			Expect(s.Bodies[1].Velocity.X).NotTo(BeZero())
		})

		DescribeTable("contact threshold at exactly r1+r2",
			func(policy world.CollisionPolicy, collides bool) {
				cfg.Collision = policy
				w := newWorld(cfg,
					newBody("a", 1, 1, vector.New(0, 0), vector.Zero),
					newBody("b", 1, 1, vector.New(2, 0), vector.Zero))
				Expect(w.Step()).To(Succeed())
				if collides {
					Expect(w.State().Collisions).To(Equal(1))
				} else {
					Expect(w.State().Collisions).To(BeZero())
					expectVec(w.State().Bodies[0].Force, vector.New(50, 0))
				}
			},
			Entry("strict applies gravity", world.CollideStrict, false),
			Entry("inclusive collides", world.CollideInclusive, true),
		)
	})

	Describe("paths", func() {
		It("samples sparsely by radius", func() {
			w := newWorld(cfg, newBody("mover", 1, 4, vector.Zero, vector.New(10, 0)))
			for i := 0; i < 50; i++ {
				Expect(w.Step()).To(Succeed())
			}
			path := w.Snapshot().Bodies[0].Path
			Expect(path[0]).To(Equal(vector.Zero))
			Expect(path).To(HaveLen(11))
		})

		It("samples every step when configured", func() {
			cfg.Path = physics.PathEvery
			w := newWorld(cfg, newBody("mover", 1, 4, vector.Zero, vector.New(10, 0)))
			for i := 0; i < 50; i++ {
				Expect(w.Step()).To(Succeed())
			}
			Expect(w.Snapshot().Bodies[0].Path).To(HaveLen(51))
		})

		It("hands out copies", func() {
			w := newWorld(cfg, newBody("mover", 1, 0, vector.Zero, vector.New(10, 0)))
			Expect(w.Step()).To(Succeed())
			s := w.Snapshot()
			s.Bodies[0].Path[0] = vector.New(99, 99)
			Expect(w.Snapshot().Bodies[0].Path[0]).To(Equal(vector.Zero))
			Expect(w.State().Bodies[0].Path).To(BeNil())
		})
	})

	Describe("faults", func() {
		var w *world.World

		BeforeEach(func() {
			w = newWorld(cfg,
				newBody("a", 1, 0, vector.New(5, 5), vector.Zero),
				newBody("b", 1, 0, vector.New(5, 5), vector.Zero))
		})

		It("reports coincident bodies as divergence", func() {
			err := w.Step()
			Expect(errors.Is(err, world.ErrDiverged)).To(BeTrue())

			var fault *world.FaultError
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.Step).To(Equal(1))
			Expect(fault.Body).To(Equal("a"))
			Expect(w.Err()).To(MatchError(world.ErrDiverged))
		})

		It("stays faulted until reset", func() {
			first := w.Step()
			Expect(first).To(HaveOccurred())
			Expect(w.Step()).To(BeIdenticalTo(first))
			Expect(w.Steps()).To(Equal(1))

			Expect(w.Reset(twoBodyScenario())).To(Succeed())
			Expect(w.Err()).NotTo(HaveOccurred())
			Expect(w.Steps()).To(BeZero())
			Expect(w.Step()).To(Succeed())
		})
	})

	Describe("lifecycle", func() {
		It("replaces the body set on reset", func() {
			w := newWorld(cfg, twoBodyScenario()...)
			for i := 0; i < 10; i++ {
				Expect(w.Step()).To(Succeed())
			}
			Expect(w.Time()).To(BeNumerically("~", 1.0, tol))

			Expect(w.Reset([]*physics.Body{newBody("solo", 1, 1, vector.Zero, vector.Zero)})).To(Succeed())
			Expect(w.Len()).To(Equal(1))
			Expect(w.Time()).To(BeZero())
			Expect(w.Snapshot().Bodies[0].Name).To(Equal("solo"))
		})

		It("is deterministic", func() {
			a := newWorld(cfg, twoBodyScenario()...)
			b := newWorld(cfg, twoBodyScenario()...)
			for i := 0; i < 300; i++ {
				Expect(a.Step()).To(Succeed())
				Expect(b.Step()).To(Succeed())
			}
			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
		})

		It("serves snapshots while stepping", func() {
			w := newWorld(cfg, twoBodyScenario()...)
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for i := 0; i < 200; i++ {
					s := w.Snapshot()
					Expect(s.Bodies).To(HaveLen(2))
				}
			}()
			for i := 0; i < 200; i++ {
				Expect(w.Step()).To(Succeed())
			}
			wg.Wait()
			Expect(w.Steps()).To(Equal(200))
		})
	})
})
