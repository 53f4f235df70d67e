package raster

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/scene"
)

// Renderer draws a scene graph into an RGBA image without a GPU.
type Renderer struct {
	Width, Height int
	Background    color.RGBA
}

func New(width, height int) *Renderer {
	return &Renderer{
		Width:      width,
		Height:     height,
		Background: color.RGBA{A: 255},
	}
}

// Snapshot syncs g from sys and renders it at the system's current
// viewport size.
func Snapshot(sys *orrery.System, g *scene.Graph) *image.RGBA {
	g.Sync(sys)
	vp := sys.Viewport()
	return New(vp.Width, vp.Height).Render(g)
}

type frame struct {
	img     *image.RGBA
	zbuf    []float64
	proj    Projector
	visited []bool
}

// Render draws g as seen from its synced camera. Opaque meshes are depth
// tested through a z-buffer; rings are blended on top and never write depth.
func (r *Renderer) Render(g *scene.Graph) *image.RGBA {
	f := &frame{
		img:     image.NewRGBA(image.Rect(0, 0, r.Width, r.Height)),
		zbuf:    make([]float64, r.Width*r.Height),
		proj:    NewProjector(g.Camera, r.Width, r.Height),
		visited: make([]bool, r.Width*r.Height),
	}
	for i := range f.zbuf {
		f.zbuf[i] = math.Inf(1)
	}
	for i := 0; i < len(f.img.Pix); i += 4 {
		f.img.Pix[i+0] = r.Background.R
		f.img.Pix[i+1] = r.Background.G
		f.img.Pix[i+2] = r.Background.B
		f.img.Pix[i+3] = r.Background.A
	}

	var meshes, rings []*scene.Node
	for _, n := range g.Nodes() {
		switch n.Kind {
		case scene.KindPoints:
			f.points(n)
		case scene.KindMesh:
			meshes = append(meshes, n)
		case scene.KindRing:
			rings = append(rings, n)
		}
	}

	for _, n := range meshes {
		f.sphere(n, g.Lighting)
	}

	// Far rings first so nearer translucent rings blend over them.
	sort.SliceStable(rings, func(i, j int) bool {
		_, _, di, _ := f.proj.Project(rings[i].Position)
		_, _, dj, _ := f.proj.Project(rings[j].Position)
		return di > dj
	})
	for _, n := range rings {
		f.ring(n)
	}
	return f.img
}

func (f *frame) points(n *scene.Node) {
	c := toRGBA(n.Material.Color, 1)
	for i := 0; i+2 < len(n.Points); i += 3 {
		x, y, _, ok := f.proj.Project(vec(n.Points[i], n.Points[i+1], n.Points[i+2]))
		if !ok {
			continue
		}
		px, py := int(x), int(y)
		if f.inside(px, py) {
			f.img.SetRGBA(px, py, c)
		}
	}
}

func (f *frame) sphere(n *scene.Node, light scene.Lighting) {
	cx, cy, depth, ok := f.proj.Project(n.Position)
	if !ok {
		return
	}
	rad := f.proj.PixelRadius(n.Radius, depth)
	if rad <= 0 {
		return
	}
	minX, maxX := int(math.Floor(cx-rad)), int(math.Ceil(cx+rad))
	minY, maxY := int(math.Floor(cy-rad)), int(math.Ceil(cy+rad))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			if !f.inside(px, py) {
				continue
			}
			nx := (float64(px) + 0.5 - cx) / rad
			ny := (cy - float64(py) - 0.5) / rad
			d2 := nx*nx + ny*ny
			if d2 > 1 {
				continue
			}
			nz := math.Sqrt(1 - d2)
			z := depth - nz*n.Radius
			idx := py*f.img.Bounds().Dx() + px
			if z >= f.zbuf[idx] {
				continue
			}
			f.zbuf[idx] = z

			shade := 1.0
			if !n.Material.Unlit {
				normal := f.proj.Normal(nx, ny, nz)
				surface := n.Position
				surface.X += normal.X * n.Radius
				surface.Y += normal.Y * n.Radius
				surface.Z += normal.Z * n.Radius
				shade = light.Shade(surface, normal)
			}
			f.img.SetRGBA(px, py, toRGBA(n.Material.Color, shade))
		}
	}
}

func (f *frame) ring(n *scene.Node) {
	_, _, depth, ok := f.proj.Project(n.Position)
	if !ok {
		depth = f.proj.near
	}
	for i := range f.visited {
		f.visited[i] = false
	}

	radial := int(math.Ceil(f.proj.PixelRadius(n.Outer-n.Inner, depth))) + 1
	around := int(2 * math.Pi * f.proj.PixelRadius(n.Outer, math.Max(depth-n.Outer, f.proj.near)))
	if around < n.Segments {
		around = n.Segments
	}
	if around > 8192 {
		around = 8192
	}

	w := f.img.Bounds().Dx()
	for ri := 0; ri <= radial; ri++ {
		rr := n.Inner + (n.Outer-n.Inner)*float64(ri)/float64(radial)
		for ai := 0; ai < around; ai++ {
			theta := 2 * math.Pi * float64(ai) / float64(around)
			x, y, z, ok := f.proj.Project(n.RingPoint(rr, theta))
			if !ok {
				continue
			}
			px, py := int(x), int(y)
			if !f.inside(px, py) {
				continue
			}
			idx := py*w + px
			if f.visited[idx] || z >= f.zbuf[idx] {
				continue
			}
			f.visited[idx] = true
			f.blend(px, py, n.Material.Color, n.Material.Opacity)
		}
	}
}

func (f *frame) blend(px, py int, c colorful.Color, alpha float64) {
	dst := f.img.RGBAAt(px, py)
	under := colorful.Color{R: float64(dst.R) / 255, G: float64(dst.G) / 255, B: float64(dst.B) / 255}
	f.img.SetRGBA(px, py, toRGBA(under.BlendRgb(c, alpha), 1))
}

func (f *frame) inside(px, py int) bool {
	b := f.img.Bounds()
	return px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y
}

func toRGBA(c colorful.Color, shade float64) color.RGBA {
	s := colorful.Color{R: c.R * shade, G: c.G * shade, B: c.B * shade}.Clamped()
	r, g, b := s.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
