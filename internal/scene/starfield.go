package scene

import "math/rand"

const (
	StarCount  = 10000
	StarSpread = 1000.0
)

// NewStarfield scatters count points uniformly in a cube of side spread
// centred on the origin. The result is one flat x,y,z batch.
func NewStarfield(rng *rand.Rand, count int, spread float64) []float32 {
	pts := make([]float32, count*3)
	for i := range pts {
		pts[i] = float32((rng.Float64() - 0.5) * spread)
	}
	return pts
}
