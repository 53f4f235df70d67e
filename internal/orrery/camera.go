package orrery

import "math"

const (
	FovY = 75.0
	Near = 0.1
	Far  = 1000.0

	// MobileBreakpoint is the viewport width below which the camera starts farther out.
	MobileBreakpoint = 768
	DesktopDistance  = 50.0
	MobileDistance   = 70.0

	OrbitRadius = 60.0
	OrbitStep   = 0.0015
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

type Viewport struct {
	Width, Height int
}

func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

func (v Viewport) Mobile() bool { return v.Width < MobileBreakpoint }

func (v Viewport) valid() bool { return v.Width > 0 && v.Height > 0 }

// Projection describes the perspective frustum. FovY is in degrees.
type Projection struct {
	FovY, Aspect, Near, Far float64
}

// BootstrapDistance is the camera distance used before the first tick:
// narrow viewports start farther away so every orbit fits.
func BootstrapDistance(width int) float64 {
	if width < MobileBreakpoint {
		return MobileDistance
	}
	return DesktopDistance
}

// CameraOrbit moves the camera on a circle around the origin. Distance is
// the bootstrap distance until the first tick and Radius afterwards.
type CameraOrbit struct {
	Angle     float64
	Radius    float64
	Step      float64
	Elevation float64
	Distance  float64
}

func newCameraOrbit(vp Viewport, elevation float64) CameraOrbit {
	return CameraOrbit{
		Radius:    OrbitRadius,
		Step:      OrbitStep,
		Elevation: elevation,
		Distance:  BootstrapDistance(vp.Width),
	}
}

func (c *CameraOrbit) advance() {
	c.Angle += c.Step
	c.Distance = c.Radius
}

// Position returns the camera eye. Its length always equals Distance.
func (c CameraOrbit) Position() Vec3 {
	horiz := c.Distance * math.Cos(c.Elevation)
	return Vec3{
		X: math.Sin(c.Angle) * horiz,
		Y: c.Distance * math.Sin(c.Elevation),
		Z: math.Cos(c.Angle) * horiz,
	}
}

// Target is where the camera looks; always the origin.
func (c CameraOrbit) Target() Vec3 { return Vec3{} }

// Up is the camera up vector.
func (c CameraOrbit) Up() Vec3 { return Vec3{Y: 1} }
