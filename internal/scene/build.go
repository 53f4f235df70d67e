package scene

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/orrery"
)

const (
	SphereSegments = 32
	RingSegments   = 64

	OrbitRingHalfWidth = 0.05
	OrbitRingOpacity   = 0.2

	PlanetRingInner   = 2.0
	PlanetRingOuter   = 3.5
	PlanetRingOpacity = 0.6
)

// BodyColors are the base colors used when a texture is unavailable.
var BodyColors = map[string]colorful.Color{
	orrery.SunName: mustHex("#FDB813"),
	"mercury":      mustHex("#B5B5B5"),
	"venus":        mustHex("#E8CDA2"),
	"earth":        mustHex("#2E86AB"),
	"mars":         mustHex("#C1440E"),
	"jupiter":      mustHex("#C88B3A"),
	"saturn":       mustHex("#E4D191"),
	"uranus":       mustHex("#7DE8E8"),
	"neptune":      mustHex("#3F54BA"),
}

var (
	white         = colorful.Color{R: 1, G: 1, B: 1}
	planetRingTan = mustHex("#d2b48c")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

type BuildOptions struct {
	TextureDir string
	StarCount  int
	StarSpread float64
}

func DefaultBuildOptions() BuildOptions {
	return BuildOptions{TextureDir: "textures", StarCount: StarCount, StarSpread: StarSpread}
}

// TexturePath is the texture file for a body name.
func TexturePath(dir, name string) string {
	return filepath.Join(dir, name+".jpg")
}

// starfieldSalt separates the sky's random stream from the one orrery.New
// draws starting angles from.
const starfieldSalt = 0x5f3759df2c1b3c6d

// StarfieldSeed is the seed the sky is drawn from for a system seed.
func StarfieldSeed(seed int64) int64 { return seed ^ starfieldSalt }

// Build populates a graph for sys. The starfield is seeded from the
// system seed so a given seed always yields the same sky.
func Build(sys *orrery.System, opts BuildOptions) *Graph {
	g := newGraph()
	rng := rand.New(rand.NewSource(StarfieldSeed(sys.Seed())))

	g.add(&Node{
		Name:   "starfield",
		Kind:   KindPoints,
		Points: NewStarfield(rng, opts.StarCount, opts.StarSpread),
		Material: Material{
			Color:     white,
			Opacity:   1,
			Unlit:     true,
			PointSize: 0.5,
		},
	})

	g.add(&Node{
		Name:     "light.point",
		Kind:     KindLight,
		Position: g.Lighting.Position,
		Material: Material{Color: white, Opacity: g.Lighting.Intensity},
	})
	g.add(&Node{
		Name:     "light.ambient",
		Kind:     KindLight,
		Material: Material{Color: white, Opacity: g.Lighting.Ambient},
	})

	g.add(&Node{
		Name:     orrery.SunName,
		Kind:     KindMesh,
		Radius:   orrery.SunRadius,
		Segments: SphereSegments,
		Material: Material{
			Texture: TexturePath(opts.TextureDir, orrery.SunName),
			Color:   BodyColors[orrery.SunName],
			Opacity: 1,
			Unlit:   true,
		},
	})

	for _, p := range sys.Planets() {
		g.add(&Node{
			Name:     PlanetNode(p.Name),
			Kind:     KindMesh,
			Radius:   p.Radius,
			Segments: SphereSegments,
			Owner:    p.Name,
			Material: Material{
				Texture: TexturePath(opts.TextureDir, p.Name),
				Color:   BodyColors[p.Name],
				Opacity: 1,
			},
		})

		if p.HasRing {
			g.add(&Node{
				Name:      RingNode(p.Name),
				Kind:      KindRing,
				RotationX: -math.Pi / 2,
				Inner:     PlanetRingInner,
				Outer:     PlanetRingOuter,
				Segments:  RingSegments,
				Owner:     p.Name,
				Material: Material{
					Color:       planetRingTan,
					Opacity:     PlanetRingOpacity,
					Unlit:       true,
					DoubleSided: true,
				},
			})
		}

		g.add(&Node{
			Name:      OrbitNode(p.Name),
			Kind:      KindRing,
			RotationX: math.Pi / 2,
			Inner:     p.OrbitRadius - OrbitRingHalfWidth,
			Outer:     p.OrbitRadius + OrbitRingHalfWidth,
			Segments:  RingSegments,
			Material: Material{
				Color:       white,
				Opacity:     OrbitRingOpacity,
				Unlit:       true,
				DoubleSided: true,
			},
		})
	}

	g.Sync(sys)
	return g
}

func PlanetNode(name string) string { return "planet." + name }
func OrbitNode(name string) string  { return "orbit." + name }
func RingNode(name string) string   { return "ring." + name }

// Ring returns the single planetary ring node.
func (g *Graph) Ring() (*Node, error) {
	var found *Node
	for _, n := range g.nodes {
		if n.Kind == KindRing && n.Owner != "" {
			if found != nil {
				return nil, fmt.Errorf("scene: rings on %s and %s", found.Owner, n.Owner)
			}
			found = n
		}
	}
	if found == nil {
		return nil, fmt.Errorf("scene: no planetary ring")
	}
	return found, nil
}

// RingPoint is the world position of the point at radius r and angle theta
// on a ring node, after its X rotation.
func (n *Node) RingPoint(r, theta float64) orrery.Vec3 {
	y := r * math.Sin(theta)
	return orrery.Vec3{
		X: n.Position.X + r*math.Cos(theta),
		Y: n.Position.Y + y*math.Cos(n.RotationX),
		Z: n.Position.Z + y*math.Sin(n.RotationX),
	}
}
