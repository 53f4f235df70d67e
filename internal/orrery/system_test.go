package orrery_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/solarsim/internal/orrery"
)

var desktop = orrery.Viewport{Width: 1280, Height: 720}

func newSystem() *orrery.System {
	sys, err := orrery.New(orrery.Options{Viewport: desktop, Seed: 42})
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func angles(sys *orrery.System) map[string]float64 {
	out := make(map[string]float64)
	for _, p := range sys.Planets() {
		out[p.Name] = p.Angle
	}
	return out
}

var _ = Describe("System", func() {
	var sys *orrery.System

	BeforeEach(func() {
		sys = newSystem()
	})

	Describe("construction", func() {
		It("creates eight planets in orbit order", func() {
			planets := sys.Planets()
			Expect(planets).To(HaveLen(8))
			Expect(planets[0].Name).To(Equal("mercury"))
			Expect(planets[7].Name).To(Equal("neptune"))
		})

		It("seeds every speed from the default table", func() {
			defaults := orrery.DefaultSpeeds()
			for _, p := range sys.Planets() {
				Expect(p.Speed).To(Equal(defaults[p.Name]), p.Name)
			}
		})

		It("draws initial angles from [0, 2π)", func() {
			for _, p := range sys.Planets() {
				Expect(p.Angle).To(BeNumerically(">=", 0))
				Expect(p.Angle).To(BeNumerically("<", 2*math.Pi))
			}
		})

		It("is reproducible for a fixed seed", func() {
			Expect(angles(newSystem())).To(Equal(angles(sys)))
		})

		It("gives exactly one planet a ring and it is saturn", func() {
			ringed := 0
			for _, p := range sys.Planets() {
				if p.HasRing {
					ringed++
					Expect(p.Name).To(Equal("saturn"))
				}
			}
			Expect(ringed).To(Equal(1))

			r, ok := sys.Ringed()
			Expect(ok).To(BeTrue())
			Expect(r.Name).To(Equal("saturn"))
		})

		It("rejects an empty viewport", func() {
			_, err := orrery.New(orrery.Options{Viewport: orrery.Viewport{Width: 0, Height: 10}})
			Expect(errors.Is(err, orrery.ErrInvalidViewport)).To(BeTrue())
		})

		It("rejects a table with an out-of-range speed", func() {
			speeds := orrery.DefaultSpeeds()
			speeds["mars"] = 0.5
			_, err := orrery.New(orrery.Options{Viewport: desktop, Speeds: speeds})
			Expect(err).To(MatchError(orrery.ErrSpeedOutOfBounds))
		})

		It("copies the default table so later edits do not leak in", func() {
			speeds := orrery.DefaultSpeeds()
			s, err := orrery.New(orrery.Options{Viewport: desktop, Speeds: speeds})
			Expect(err).NotTo(HaveOccurred())
			speeds["earth"] = 0.09
			Expect(s.Defaults()["earth"]).To(Equal(0.03))
		})
	})

	Describe("SetSpeed", func() {
		It("sets exactly the requested value and leaves other planets alone", func() {
			before := sys.Planets()
			Expect(sys.Dispatch(orrery.SetSpeed{Planet: "mars", Value: 0.037})).To(Succeed())

			for i, p := range sys.Planets() {
				if p.Name == "mars" {
					Expect(p.Speed).To(Equal(0.037))
					continue
				}
				Expect(p.Speed).To(Equal(before[i].Speed), p.Name)
			}
		})

		It("clamps to the slider bounds", func() {
			Expect(sys.Dispatch(orrery.SetSpeed{Planet: "earth", Value: 2})).To(Succeed())
			p, _ := sys.Planet("earth")
			Expect(p.Speed).To(Equal(orrery.SpeedMax))

			Expect(sys.Dispatch(orrery.SetSpeed{Planet: "earth", Value: -1})).To(Succeed())
			p, _ = sys.Planet("earth")
			Expect(p.Speed).To(Equal(orrery.SpeedMin))
		})

		It("rejects unknown planets and NaN", func() {
			Expect(sys.Dispatch(orrery.SetSpeed{Planet: "pluto", Value: 0.01})).To(MatchError(orrery.ErrUnknownPlanet))
			Expect(sys.Dispatch(orrery.SetSpeed{Planet: "venus", Value: math.NaN()})).To(MatchError(orrery.ErrSpeedOutOfBounds))
		})

		It("is reflected in the slider value", func() {
			Expect(sys.Dispatch(orrery.SetSpeed{Planet: "uranus", Value: 0.066})).To(Succeed())
			for _, sl := range sys.Sliders() {
				if sl.Planet == "uranus" {
					Expect(sl.Value).To(Equal(0.066))
				}
			}
		})
	})

	Describe("ResetSpeeds", func() {
		It("restores speeds and sliders but keeps every angle", func() {
			for _, name := range orrery.PlanetNames() {
				Expect(sys.Dispatch(orrery.SetSpeed{Planet: name, Value: 0.1})).To(Succeed())
			}
			sys.Advance(25)
			before := angles(sys)

			Expect(sys.Dispatch(orrery.ResetSpeeds{})).To(Succeed())

			defaults := orrery.DefaultSpeeds()
			for _, p := range sys.Planets() {
				Expect(p.Speed).To(Equal(defaults[p.Name]))
			}
			for _, sl := range sys.Sliders() {
				Expect(sl.Value).To(Equal(defaults[sl.Planet]))
			}
			Expect(angles(sys)).To(Equal(before))
		})
	})

	Describe("Advance", func() {
		It("adds N times the speed to each angle", func() {
			const n = 500
			start := sys.Planets()
			sys.Advance(n)

			for i, p := range sys.Planets() {
				want := start[i].Angle + n*start[i].Speed
				Expect(p.Angle).To(BeNumerically("~", want, 1e-9), p.Name)
			}
		})

		It("places each planet on its orbit circle in the XZ plane", func() {
			sys.Advance(123)
			for _, p := range sys.Planets() {
				pos, ok := sys.PlanetPosition(p.Name)
				Expect(ok).To(BeTrue())
				Expect(pos.X).To(BeNumerically("~", p.OrbitRadius*math.Cos(p.Angle), 1e-9))
				Expect(pos.Y).To(Equal(0.0))
				Expect(pos.Z).To(BeNumerically("~", p.OrbitRadius*math.Sin(p.Angle), 1e-9))
			}
		})

		It("never changes orbit radii", func() {
			radii := make(map[string]float64)
			for _, p := range sys.Planets() {
				radii[p.Name] = p.OrbitRadius
			}
			sys.Advance(1000)
			Expect(sys.Dispatch(orrery.ResetSpeeds{})).To(Succeed())
			for _, p := range sys.Planets() {
				Expect(p.OrbitRadius).To(Equal(radii[p.Name]))
			}
		})

		It("counts ticks", func() {
			sys.Advance(3)
			sys.Advance(4)
			Expect(sys.Ticks()).To(Equal(uint64(7)))
		})
	})

	Describe("Camera", func() {
		It("starts at the desktop distance on wide viewports", func() {
			Expect(sys.Camera().Position().Length()).To(BeNumerically("~", orrery.DesktopDistance, 1e-9))
		})

		It("starts farther out on narrow viewports", func() {
			s, err := orrery.New(orrery.Options{Viewport: orrery.Viewport{Width: 390, Height: 844}})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Viewport().Mobile()).To(BeTrue())
			Expect(s.Camera().Position().Length()).To(BeNumerically("~", orrery.MobileDistance, 1e-9))
			Expect(orrery.BootstrapDistance(767)).To(Equal(orrery.MobileDistance))
			Expect(orrery.BootstrapDistance(768)).To(Equal(orrery.DesktopDistance))
		})

		DescribeTable("stays 60 units from the origin once ticking",
			func(ticks int, elevation float64) {
				s, err := orrery.New(orrery.Options{Viewport: desktop, Elevation: elevation})
				Expect(err).NotTo(HaveOccurred())
				s.Advance(ticks)

				cam := s.Camera()
				Expect(cam.Position().Length()).To(BeNumerically("~", 60, 1e-9))
				Expect(cam.Angle).To(BeNumerically("~", float64(ticks)*orrery.OrbitStep, 1e-9))
				Expect(cam.Target()).To(Equal(orrery.Vec3{}))
			},
			Entry("one tick", 1, 0.0),
			Entry("many ticks", 10000, 0.0),
			Entry("tilted orbit", 250, 0.35),
		)

		It("looks straight at the origin", func() {
			sys.Advance(77)
			cam := sys.Camera()
			dir := cam.Target().Sub(cam.Position())
			pos := cam.Position()
			// Direction is exactly the negated eye vector.
			Expect(dir.X).To(BeNumerically("~", -pos.X, 1e-12))
			Expect(dir.Z).To(BeNumerically("~", -pos.Z, 1e-12))
		})
	})

	Describe("Resize", func() {
		It("updates aspect ratio and viewport", func() {
			Expect(sys.Dispatch(orrery.Resize{Width: 800, Height: 600})).To(Succeed())
			Expect(sys.Projection().Aspect).To(BeNumerically("~", 800.0/600.0, 1e-12))
			Expect(sys.Viewport()).To(Equal(orrery.Viewport{Width: 800, Height: 600}))
			Expect(sys.Projection().FovY).To(Equal(orrery.FovY))
		})

		It("rejects degenerate sizes without changing state", func() {
			Expect(sys.Dispatch(orrery.Resize{Width: 800, Height: 0})).To(MatchError(orrery.ErrInvalidViewport))
			Expect(sys.Viewport()).To(Equal(desktop))
		})
	})

	Describe("Screenshot", func() {
		It("needs an attached surface", func() {
			Expect(sys.Dispatch(orrery.Screenshot{})).To(MatchError(orrery.ErrNeedsSurface))
		})

		It("calls the surface without touching planet or camera state", func() {
			sys.Advance(10)
			before, cam := sys.Planets(), sys.Camera()
			calls := 0
			sys.AttachSurface(func() error {
				calls++
				return nil
			})

			Expect(sys.Dispatch(orrery.Screenshot{})).To(Succeed())
			Expect(calls).To(Equal(1))
			Expect(sys.Planets()).To(Equal(before))
			Expect(sys.Camera()).To(Equal(cam))
		})
	})
})

var _ = Describe("Slider", func() {
	It("is labeled and bounded like the range input", func() {
		sys := newSystem()
		sliders := sys.Sliders()
		Expect(sliders).To(HaveLen(8))
		Expect(sliders[2].Label).To(Equal("earth speed"))
		Expect(sliders[2].Min).To(Equal(0.001))
		Expect(sliders[2].Max).To(Equal(0.1))
		Expect(sliders[2].Step).To(Equal(0.001))
	})

	DescribeTable("ValueAt snaps to the step grid",
		func(fraction, want float64) {
			sl := orrery.Slider{Min: orrery.SpeedMin, Max: orrery.SpeedMax, Step: orrery.SpeedStep}
			Expect(sl.ValueAt(fraction)).To(Equal(want))
		},
		Entry("left end", 0.0, 0.001),
		Entry("right end", 1.0, 0.1),
		Entry("beyond right", 1.5, 0.1),
		Entry("beyond left", -0.2, 0.001),
		Entry("quarter", 0.25, 0.026),
	)

	It("round-trips Fraction through ValueAt", func() {
		sl := orrery.Slider{Min: orrery.SpeedMin, Max: orrery.SpeedMax, Step: orrery.SpeedStep, Value: 0.037}
		Expect(sl.ValueAt(sl.Fraction())).To(Equal(0.037))
	})
})

var _ = Describe("SpeedTable", func() {
	It("flags unknown names", func() {
		t := orrery.DefaultSpeeds()
		t["pluto"] = 0.005
		Expect(t.Validate()).To(MatchError(orrery.ErrUnknownPlanet))
	})

	It("flags missing planets", func() {
		t := orrery.DefaultSpeeds()
		delete(t, "venus")
		Expect(t.Validate()).To(MatchError(orrery.ErrUnknownPlanet))
	})

	It("accepts the built-in table", func() {
		Expect(orrery.DefaultSpeeds().Validate()).To(Succeed())
	})
})
