package orrery

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	SpeedMin  = 0.001
	SpeedMax  = 0.1
	SpeedStep = 0.001
)

// PlanetState is the mutable record of one orbiting planet.
type PlanetState struct {
	Name        string
	Radius      float64
	OrbitRadius float64
	Speed       float64
	Angle       float64
	HasRing     bool
}

// Position is the planet's location in the orbital (XZ) plane.
func (p PlanetState) Position() Vec3 {
	return Vec3{
		X: math.Cos(p.Angle) * p.OrbitRadius,
		Y: 0,
		Z: math.Sin(p.Angle) * p.OrbitRadius,
	}
}

// Options configures New. A nil Speeds means DefaultSpeeds. Elevation tilts
// the camera orbit above the orbital plane, in radians.
type Options struct {
	Viewport  Viewport
	Speeds    SpeedTable
	Seed      int64
	Elevation float64
}

// System owns the planet table, the camera orbit and the viewport.
type System struct {
	planets  []PlanetState
	index    map[string]int
	defaults SpeedTable
	camera   CameraOrbit
	viewport Viewport
	proj     Projection
	ticks    uint64
	seed     int64

	screenshot func() error
}

// New builds the planet table with random initial angles in [0, 2π).
func New(opts Options) (*System, error) {
	if !opts.Viewport.valid() {
		return nil, fmt.Errorf("%dx%d: %w", opts.Viewport.Width, opts.Viewport.Height, ErrInvalidViewport)
	}
	speeds := opts.Speeds
	if speeds == nil {
		speeds = defaultSpeeds
	}
	if err := speeds.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	s := &System{
		planets:  make([]PlanetState, 0, len(Descriptors)),
		index:    make(map[string]int, len(Descriptors)),
		defaults: speeds.Clone(),
		camera:   newCameraOrbit(opts.Viewport, opts.Elevation),
		viewport: opts.Viewport,
		proj: Projection{
			FovY:   FovY,
			Aspect: opts.Viewport.Aspect(),
			Near:   Near,
			Far:    Far,
		},
		seed: opts.Seed,
	}

	for _, d := range Descriptors {
		s.index[d.Name] = len(s.planets)
		s.planets = append(s.planets, PlanetState{
			Name:        d.Name,
			Radius:      d.Radius,
			OrbitRadius: d.OrbitRadius,
			Speed:       s.defaults[d.Name],
			Angle:       rng.Float64() * 2 * math.Pi,
			HasRing:     d.Ringed,
		})
	}
	return s, nil
}

// Advance runs n render ticks: the camera and every planet step forward by
// their angular speed once per tick.
func (s *System) Advance(n int) {
	for i := 0; i < n; i++ {
		s.camera.advance()
		for j := range s.planets {
			s.planets[j].Angle += s.planets[j].Speed
		}
		s.ticks++
	}
}

// Planets returns a copy of the planet table in orbit order.
func (s *System) Planets() []PlanetState {
	out := make([]PlanetState, len(s.planets))
	copy(out, s.planets)
	return out
}

func (s *System) Planet(name string) (PlanetState, bool) {
	i, ok := s.index[name]
	if !ok {
		return PlanetState{}, false
	}
	return s.planets[i], true
}

func (s *System) PlanetPosition(name string) (Vec3, bool) {
	p, ok := s.Planet(name)
	if !ok {
		return Vec3{}, false
	}
	return p.Position(), true
}

// Ringed returns the planet carrying the ring.
func (s *System) Ringed() (PlanetState, bool) {
	for _, p := range s.planets {
		if p.HasRing {
			return p, true
		}
	}
	return PlanetState{}, false
}

// Defaults returns a copy of the default speed table.
func (s *System) Defaults() SpeedTable   { return s.defaults.Clone() }
func (s *System) Camera() CameraOrbit    { return s.camera }
func (s *System) Viewport() Viewport     { return s.viewport }
func (s *System) Projection() Projection { return s.proj }
func (s *System) Ticks() uint64          { return s.ticks }
func (s *System) Seed() int64            { return s.seed }
