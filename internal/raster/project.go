package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/scene"
)

// Projector maps world coordinates to pixel coordinates of a width×height
// target using the graph's camera pose.
type Projector struct {
	mvp           mgl64.Mat4
	width, height int
	near          float64
	focal         float64

	forward, right, up orrery.Vec3
}

func NewProjector(cam scene.CameraPose, width, height int) Projector {
	fov := mgl64.DegToRad(cam.Projection.FovY)
	near, far := cam.Projection.Near, cam.Projection.Far
	if near <= 0 {
		near = orrery.Near
	}
	if far <= near {
		far = orrery.Far
	}
	aspect := float64(width) / float64(height)

	eye, target, up := toMgl(cam.Position), toMgl(cam.Target), toMgl(cam.Up)
	view := mgl64.LookAtV(eye, target, up)
	proj := mgl64.Perspective(fov, aspect, near, far)

	fwd := target.Sub(eye).Normalize()
	right := fwd.Cross(up).Normalize()
	trueUp := right.Cross(fwd)

	return Projector{
		mvp:     proj.Mul4(view),
		width:   width,
		height:  height,
		near:    near,
		focal:   float64(height) / 2 / math.Tan(fov/2),
		forward: fromMgl(fwd),
		right:   fromMgl(right),
		up:      fromMgl(trueUp),
	}
}

// Project returns pixel coordinates and view depth. ok is false for points
// behind the near plane.
func (p Projector) Project(v orrery.Vec3) (x, y, depth float64, ok bool) {
	clip := p.mvp.Mul4x1(toMgl(v).Vec4(1))
	w := clip.W()
	if w <= p.near {
		return 0, 0, 0, false
	}
	nx, ny := clip.X()/w, clip.Y()/w
	x = (nx + 1) / 2 * float64(p.width)
	y = (1 - ny) / 2 * float64(p.height)
	return x, y, w, true
}

// PixelRadius is the on-screen radius of a sphere of the given world
// radius at view depth.
func (p Projector) PixelRadius(radius, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return radius * p.focal / depth
}

// Normal converts a screen-space offset on a sphere disk (nx right, ny up,
// nz towards the viewer) into a world-space normal.
func (p Projector) Normal(nx, ny, nz float64) orrery.Vec3 {
	return orrery.Vec3{
		X: p.right.X*nx + p.up.X*ny - p.forward.X*nz,
		Y: p.right.Y*nx + p.up.Y*ny - p.forward.Y*nz,
		Z: p.right.Z*nx + p.up.Z*ny - p.forward.Z*nz,
	}
}

func toMgl(v orrery.Vec3) mgl64.Vec3   { return mgl64.Vec3{v.X, v.Y, v.Z} }
func fromMgl(v mgl64.Vec3) orrery.Vec3 { return orrery.Vec3{X: v[0], Y: v[1], Z: v[2]} }
