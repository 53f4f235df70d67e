package gui

import (
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/solarsim/internal/controls"
	"github.com/san-kum/solarsim/internal/scene"
)

func (a *App) Draw() {
	rl.BeginTextureMode(a.target)
	rl.ClearBackground(ColBg)
	rl.BeginMode3D(a.camera)
	a.drawScene()
	rl.EndMode3D()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	tex := a.target.Texture
	// Render textures are stored bottom-up.
	rl.DrawTextureRec(tex, rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height)), rl.NewVector2(0, 0), rl.White)
	a.DrawPanel()
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) drawScene() {
	var rings []*scene.Node
	for _, n := range a.graph.Nodes() {
		switch n.Kind {
		case scene.KindPoints:
			for _, s := range a.stars {
				rl.DrawPoint3D(s, a.starCol)
			}
		case scene.KindMesh:
			a.drawBody(n)
		case scene.KindRing:
			rings = append(rings, n)
		}
	}
	// Translucent rings go last so bodies behind them show through.
	for _, n := range rings {
		a.drawRing(n)
	}
}

func (a *App) drawBody(n *scene.Node) {
	model, ok := a.models[n.Name]
	if !ok {
		return
	}
	tint := a.tints[n.Name]
	if !n.Material.Unlit {
		tint = shade(tint, a.graph.Lighting.Brightness(n.Position))
	}
	rl.DrawModel(model, toVec(n.Position), 1, tint)
}

// drawRing draws an annulus as a quad strip. Both windings are emitted so
// the ring is visible from either side.
func (a *App) drawRing(n *scene.Node) {
	col := toColor(n.Material.Color, n.Material.Opacity)
	segs := n.Segments
	if segs < 3 {
		segs = 3
	}
	for i := 0; i < segs; i++ {
		t0 := 2 * math.Pi * float64(i) / float64(segs)
		t1 := 2 * math.Pi * float64(i+1) / float64(segs)
		i0, i1 := toVec(n.RingPoint(n.Inner, t0)), toVec(n.RingPoint(n.Inner, t1))
		o0, o1 := toVec(n.RingPoint(n.Outer, t0)), toVec(n.RingPoint(n.Outer, t1))

		rl.DrawTriangle3D(i0, o0, o1, col)
		rl.DrawTriangle3D(i0, o1, i1, col)
		if n.Material.DoubleSided {
			rl.DrawTriangle3D(o1, o0, i0, col)
			rl.DrawTriangle3D(i1, o1, i0, col)
		}
	}
}

func (a *App) DrawPanel() {
	p := a.panel
	mouse := rl.GetMousePosition()
	rl.DrawRectangleRec(rect(p.Bounds), ColPanel)

	for i, sl := range a.sys.Sliders() {
		tr := p.Tracks[i]
		rl.DrawText(sl.Label, int32(tr.X), int32(tr.Y)-16, 12, ColText)
		value := rl.MeasureText(sl.Label, 12)
		rl.DrawText(strconv.FormatFloat(sl.Value, 'f', 3, 64), int32(tr.X)+value+8, int32(tr.Y)-16, 12, ColTextDim)
		rl.DrawRectangleRec(rect(tr), ColTrack)
		kx, ky := p.Knob(i, sl)
		rl.DrawCircle(int32(kx), int32(ky), 7, ColKnob)
	}

	a.button(p.Reset, controls.ResetLabel, 0, mouse)
	x, y := a.button(p.Shot, controls.ScreenshotText, cameraIconWidth+6, mouse)
	drawCameraIcon(x, y)
}

const cameraIconWidth = 16

// button draws a button with its label centered after lead pixels of
// reserved space, and returns where that space starts.
func (a *App) button(r controls.Rect, label string, lead int32, mouse rl.Vector2) (x, y int32) {
	col := ColButton
	if r.Contains(mouse.X, mouse.Y) {
		col = ColHover
	}
	rl.DrawRectangleRec(rect(r), col)
	w := rl.MeasureText(label, 14) + lead
	x, y = int32(r.X+r.W/2)-w/2, int32(r.Y+r.H/2)-7
	rl.DrawText(label, x+lead, y, 14, ColText)
	return x, y
}

// drawCameraIcon stands in for the camera emoji, which the default font
// cannot draw.
func drawCameraIcon(x, y int32) {
	rl.DrawRectangle(x, y+3, cameraIconWidth, 11, ColText)
	rl.DrawRectangle(x+4, y+1, 6, 3, ColText)
	rl.DrawCircle(x+cameraIconWidth/2, y+8, 4, ColButton)
	rl.DrawCircle(x+cameraIconWidth/2, y+8, 2, ColText)
}

func (a *App) DrawHUD() {
	h := int32(rl.GetScreenHeight())
	rl.DrawText("[R] RESET  [S] SCREENSHOT  [Q] QUIT", 16, h-24, 12, ColTextDim)
	rl.DrawFPS(16, 16)
	if a.status != "" && rl.GetTime() < a.statusUntil {
		rl.DrawText(a.status, 16, h-44, 14, ColText)
	}
}

func rect(r controls.Rect) rl.Rectangle {
	return rl.NewRectangle(r.X, r.Y, r.W, r.H)
}

func shade(c rl.Color, f float64) rl.Color {
	scale := func(v uint8) uint8 { return uint8(math.Min(255, float64(v)*f)) }
	return rl.NewColor(scale(c.R), scale(c.G), scale(c.B), c.A)
}
