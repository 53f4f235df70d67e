package orrery

import (
	"fmt"
	"math"
	"sort"
)

// Descriptor is the static shape of one planet.
type Descriptor struct {
	Name        string
	Radius      float64
	OrbitRadius float64
	Ringed      bool
}

const (
	SunName   = "sun"
	SunRadius = 4.0
)

// Descriptors lists the planets from the sun outwards.
var Descriptors = []Descriptor{
	{Name: "mercury", Radius: 0.5, OrbitRadius: 7},
	{Name: "venus", Radius: 0.8, OrbitRadius: 10},
	{Name: "earth", Radius: 1.0, OrbitRadius: 13},
	{Name: "mars", Radius: 0.7, OrbitRadius: 16},
	{Name: "jupiter", Radius: 1.6, OrbitRadius: 21},
	{Name: "saturn", Radius: 1.4, OrbitRadius: 26, Ringed: true},
	{Name: "uranus", Radius: 1.2, OrbitRadius: 30},
	{Name: "neptune", Radius: 1.2, OrbitRadius: 35},
}

// PlanetNames returns the planet names in orbit order.
func PlanetNames() []string {
	names := make([]string, len(Descriptors))
	for i, d := range Descriptors {
		names[i] = d.Name
	}
	return names
}

// SpeedTable maps a planet name to its angular speed in radians per tick.
type SpeedTable map[string]float64

var defaultSpeeds = SpeedTable{
	"mercury": 0.04,
	"venus":   0.035,
	"earth":   0.03,
	"mars":    0.025,
	"jupiter": 0.02,
	"saturn":  0.015,
	"uranus":  0.01,
	"neptune": 0.008,
}

// DefaultSpeeds returns a copy of the built-in speed table.
func DefaultSpeeds() SpeedTable {
	return defaultSpeeds.Clone()
}

func (t SpeedTable) Clone() SpeedTable {
	c := make(SpeedTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Validate checks that every planet has an in-bounds speed and that no
// unknown names are present.
func (t SpeedTable) Validate() error {
	known := make(map[string]bool, len(Descriptors))
	for _, d := range Descriptors {
		known[d.Name] = true
		v, ok := t[d.Name]
		if !ok {
			return fmt.Errorf("missing speed for %s: %w", d.Name, ErrUnknownPlanet)
		}
		if !InBounds(v) {
			return fmt.Errorf("%s speed %g: %w", d.Name, v, ErrSpeedOutOfBounds)
		}
	}

	extra := make([]string, 0)
	for name := range t {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("%v: %w", extra, ErrUnknownPlanet)
	}
	return nil
}

// InBounds reports whether v is a usable slider value.
func InBounds(v float64) bool {
	return !math.IsNaN(v) && v >= SpeedMin && v <= SpeedMax
}
