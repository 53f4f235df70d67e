package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/orrery"
)

type Kind int

const (
	KindPoints Kind = iota
	KindMesh
	KindRing
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindPoints:
		return "points"
	case KindMesh:
		return "mesh"
	case KindRing:
		return "ring"
	case KindLight:
		return "light"
	}
	return "unknown"
}

// Material describes how a node is shaded. Texture is a file path and may
// be empty; Color is used when there is no texture or it fails to load.
type Material struct {
	Texture     string
	Color       colorful.Color
	Opacity     float64
	Unlit       bool
	DoubleSided bool
	PointSize   float64
}

// Node is one renderable entity.
//
// Spheres use Radius and Segments. Rings are flat annuli between Inner and
// Outer, built in the XY plane and rotated by RotationX into place. Points
// holds x,y,z triples for KindPoints.
type Node struct {
	Name      string
	Kind      Kind
	Position  orrery.Vec3
	RotationX float64
	Radius    float64
	Inner     float64
	Outer     float64
	Segments  int
	Points    []float32
	Material  Material

	// Owner is the planet a node follows, if any.
	Owner string
}

// CameraPose is the camera as last synced from the system.
type CameraPose struct {
	Position   orrery.Vec3
	Target     orrery.Vec3
	Up         orrery.Vec3
	Projection orrery.Projection
}

type Graph struct {
	nodes    []*Node
	byName   map[string]*Node
	follow   map[string][]*Node
	Camera   CameraPose
	Surface  orrery.Viewport
	Lighting Lighting
}

func newGraph() *Graph {
	return &Graph{
		byName:   make(map[string]*Node),
		follow:   make(map[string][]*Node),
		Lighting: DefaultLighting(),
	}
}

func (g *Graph) add(n *Node) *Node {
	g.nodes = append(g.nodes, n)
	g.byName[n.Name] = n
	if n.Owner != "" {
		g.follow[n.Owner] = append(g.follow[n.Owner], n)
	}
	return n
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node looks a node up by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Sync copies positions, camera pose and surface size from sys. It is the
// only write the render loop performs on the graph.
func (g *Graph) Sync(sys *orrery.System) {
	for _, p := range sys.Planets() {
		pos := p.Position()
		for _, n := range g.follow[p.Name] {
			n.Position = pos
		}
	}

	cam := sys.Camera()
	g.Camera = CameraPose{
		Position:   cam.Position(),
		Target:     cam.Target(),
		Up:         cam.Up(),
		Projection: sys.Projection(),
	}
	g.Surface = sys.Viewport()
}
