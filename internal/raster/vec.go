package raster

import "github.com/san-kum/solarsim/internal/orrery"

func vec(x, y, z float32) orrery.Vec3 {
	return orrery.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}
}
