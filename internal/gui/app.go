package gui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/solarsim/internal/capture"
	"github.com/san-kum/solarsim/internal/controls"
	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/scene"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColPanel   = rl.NewColor(20, 20, 28, 200)
	ColTrack   = rl.NewColor(70, 70, 90, 255)
	ColKnob    = rl.NewColor(253, 184, 19, 255)
	ColText    = rl.NewColor(220, 220, 230, 255)
	ColTextDim = rl.NewColor(120, 120, 140, 255)
	ColButton  = rl.NewColor(46, 134, 171, 255)
	ColHover   = rl.NewColor(76, 164, 201, 255)
)

const statusSeconds = 3.0

type Options struct {
	FPS       int
	Title     string
	OutputDir string
	Logger    log.Logger
}

type App struct {
	sys    *orrery.System
	graph  *scene.Graph
	opts   Options
	logger log.Logger

	camera   rl.Camera3D
	target   rl.RenderTexture2D
	panel    *controls.Panel
	models   map[string]rl.Model
	textures []rl.Texture2D
	tints    map[string]rl.Color
	stars    []rl.Vector3
	starCol  rl.Color

	status      string
	statusUntil float64
	pending     []orrery.Command
}

// Run opens a resizable window sized to the system viewport and animates
// until the window is closed or Q is pressed.
func Run(sys *orrery.System, graph *scene.Graph, opts Options) error {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	vp := sys.Viewport()

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(vp.Width), int32(vp.Height), opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)

	app := newApp(sys, graph, opts)
	defer app.unload()
	app.RunLoop()
	return nil
}

func newApp(sys *orrery.System, graph *scene.Graph, opts Options) *App {
	vp := sys.Viewport()
	a := &App{
		sys:    sys,
		graph:  graph,
		opts:   opts,
		logger: log.With(opts.Logger, "component", "gui"),
		target: rl.LoadRenderTexture(int32(vp.Width), int32(vp.Height)),
		panel:  controls.NewPanel(vp.Width, vp.Height, len(orrery.Descriptors)),
		models: make(map[string]rl.Model),
		tints:  make(map[string]rl.Color),
	}
	a.load()
	sys.AttachSurface(a.screenshot)
	return a
}

// load creates a sphere model per body and the star batch. A missing
// texture leaves the model untextured and tinted with the body color.
func (a *App) load() {
	for _, n := range a.graph.Nodes() {
		switch n.Kind {
		case scene.KindPoints:
			a.stars = make([]rl.Vector3, 0, len(n.Points)/3)
			for i := 0; i+2 < len(n.Points); i += 3 {
				a.stars = append(a.stars, rl.NewVector3(n.Points[i], n.Points[i+1], n.Points[i+2]))
			}
			a.starCol = toColor(n.Material.Color, 1)
		case scene.KindMesh:
			segs := n.Segments
			model := rl.LoadModelFromMesh(rl.GenMeshSphere(float32(n.Radius), segs, segs))
			a.tints[n.Name] = rl.White
			if tex, ok := a.loadTexture(n.Material.Texture); ok {
				rl.SetMaterialTexture(model.Materials, rl.MapDiffuse, tex)
			} else {
				a.tints[n.Name] = toColor(n.Material.Color, 1)
			}
			a.models[n.Name] = model
		}
	}
}

func (a *App) loadTexture(path string) (rl.Texture2D, bool) {
	if _, err := os.Stat(path); err != nil {
		level.Warn(a.logger).Log("msg", "texture missing, using base color", "path", path, "err", err)
		return rl.Texture2D{}, false
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		level.Warn(a.logger).Log("msg", "texture failed to load, using base color", "path", path)
		return rl.Texture2D{}, false
	}
	a.textures = append(a.textures, tex)
	return tex, true
}

func (a *App) unload() {
	a.sys.AttachSurface(nil)
	for _, m := range a.models {
		rl.UnloadModel(m)
	}
	for _, t := range a.textures {
		rl.UnloadTexture(t)
	}
	rl.UnloadRenderTexture(a.target)
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
		a.flush()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	}

	mouse := rl.GetMousePosition()
	ptr := controls.Pointer{
		X:       mouse.X,
		Y:       mouse.Y,
		Down:    rl.IsMouseButtonDown(rl.MouseLeftButton),
		Pressed: rl.IsMouseButtonPressed(rl.MouseLeftButton),
	}
	cmds := a.panel.Handle(ptr, a.sys.Sliders())
	if rl.IsKeyPressed(rl.KeyR) {
		cmds = append(cmds, orrery.ResetSpeeds{})
	}
	if rl.IsKeyPressed(rl.KeyS) {
		cmds = append(cmds, orrery.Screenshot{})
	}
	now, afterDraw := controls.SplitDeferred(cmds)
	for _, cmd := range now {
		a.dispatch(cmd)
	}
	a.pending = append(a.pending, afterDraw...)

	a.sys.Advance(1)
	a.graph.Sync(a.sys)
	a.camera = toCamera(a.graph.Camera)
}

func (a *App) dispatch(cmd orrery.Command) {
	if err := a.sys.Dispatch(cmd); err != nil {
		level.Error(a.logger).Log("msg", "command failed", "command", fmt.Sprintf("%T", cmd), "err", err)
		a.flash(err.Error())
	}
}

// flush runs commands that need this frame's render target filled.
func (a *App) flush() {
	for _, cmd := range a.pending {
		a.dispatch(cmd)
	}
	a.pending = a.pending[:0]
}

func (a *App) resize(w, h int) {
	if err := a.sys.Dispatch(orrery.Resize{Width: w, Height: h}); err != nil {
		// Minimized windows report zero size; keep the last surface.
		level.Debug(a.logger).Log("msg", "resize ignored", "width", w, "height", h, "err", err)
		return
	}
	rl.UnloadRenderTexture(a.target)
	a.target = rl.LoadRenderTexture(int32(w), int32(h))
	a.panel.Layout(w, h)
	level.Debug(a.logger).Log("msg", "resized", "width", w, "height", h)
}

// screenshot reads back the last rendered scene frame. The control panel is
// drawn straight to the window and never appears in the capture.
func (a *App) screenshot() error {
	img := rl.LoadImageFromTexture(a.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	path, err := capture.Save(img.ToImage(), a.opts.OutputDir)
	if err != nil {
		return err
	}
	level.Info(a.logger).Log("msg", "screenshot saved", "path", path)
	a.flash("saved " + path)
	return nil
}

func (a *App) flash(msg string) {
	a.status = msg
	a.statusUntil = rl.GetTime() + statusSeconds
}

func toCamera(c scene.CameraPose) rl.Camera3D {
	return rl.Camera3D{
		Position:   toVec(c.Position),
		Target:     toVec(c.Target),
		Up:         toVec(c.Up),
		Fovy:       float32(c.Projection.FovY),
		Projection: rl.CameraPerspective,
	}
}

func toVec(v orrery.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func toColor(c colorful.Color, alpha float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, uint8(alpha*255+0.5))
}
