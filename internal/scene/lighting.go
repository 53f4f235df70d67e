package scene

import (
	"math"

	"github.com/san-kum/solarsim/internal/orrery"
)

// Lighting is a point light at the sun plus a flat ambient term.
type Lighting struct {
	Position  orrery.Vec3
	Intensity float64
	Range     float64
	Ambient   float64
}

func DefaultLighting() Lighting {
	return Lighting{Intensity: 3, Range: 200, Ambient: 0.3}
}

// Attenuation falls from 1 at the light to 0 at Range.
func (l Lighting) Attenuation(p orrery.Vec3) float64 {
	if l.Range <= 0 {
		return 1
	}
	d := p.Sub(l.Position).Length()
	if d >= l.Range {
		return 0
	}
	f := 1 - d/l.Range
	return f * f
}

// Shade is the brightness of a surface point at p with unit normal n.
func (l Lighting) Shade(p, n orrery.Vec3) float64 {
	toLight := l.Position.Sub(p)
	d := toLight.Length()
	lambert := 1.0
	if d > 0 {
		lambert = math.Max(0, (toLight.X*n.X+toLight.Y*n.Y+toLight.Z*n.Z)/d)
	}
	return math.Min(1, l.Ambient+l.Intensity*l.Attenuation(p)*lambert)
}

// Brightness is the shade of the lit hemisphere of a body at p, used where
// per-pixel lighting is not available.
func (l Lighting) Brightness(p orrery.Vec3) float64 {
	return math.Min(1, l.Ambient+l.Intensity*l.Attenuation(p))
}
