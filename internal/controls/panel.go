// Package controls lays out the window control panel and turns pointer
// input into orrery commands. It draws nothing itself.
package controls

import "github.com/san-kum/solarsim/internal/orrery"

// ScreenshotLabel is the full button text. Bitmap fonts have no glyph for
// ScreenshotIcon, so windowed front ends draw the icon themselves and print
// only ScreenshotText.
const (
	ResetLabel      = "Reset Speeds"
	ScreenshotIcon  = "📸"
	ScreenshotText  = "Take Screenshot"
	ScreenshotLabel = ScreenshotIcon + " " + ScreenshotText

	panelWidth   = 260
	panelMargin  = 12
	panelPad     = 12
	rowHeight    = 34
	labelHeight  = 16
	trackHeight  = 8
	buttonHeight = 28
	buttonGap    = 8
)

type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Pointer is one frame of mouse state. Pressed is true only on the frame
// the button went down.
type Pointer struct {
	X, Y    float32
	Down    bool
	Pressed bool
}

// Panel is the on-screen control panel: one slider track per planet and two
// buttons below them, pinned to the top right of the window.
type Panel struct {
	Bounds Rect
	Tracks []Rect
	Reset  Rect
	Shot   Rect

	dragging int
}

func NewPanel(screenW, screenH, sliders int) *Panel {
	p := &Panel{Tracks: make([]Rect, sliders), dragging: -1}
	p.Layout(screenW, screenH)
	return p
}

// Layout positions the panel for a screen size. Narrow screens get a panel
// at most half the width.
func (p *Panel) Layout(screenW, screenH int) {
	w := float32(panelWidth)
	if half := float32(screenW) / 2; w > half {
		w = half
	}
	h := float32(panelPad*2 + len(p.Tracks)*rowHeight + 2*buttonHeight + 2*buttonGap)
	p.Bounds = Rect{X: float32(screenW) - w - panelMargin, Y: panelMargin, W: w, H: h}

	inner := p.Bounds.W - 2*panelPad
	y := p.Bounds.Y + panelPad
	for i := range p.Tracks {
		p.Tracks[i] = Rect{X: p.Bounds.X + panelPad, Y: y + labelHeight, W: inner, H: trackHeight}
		y += rowHeight
	}
	y += buttonGap
	p.Reset = Rect{X: p.Bounds.X + panelPad, Y: y, W: inner, H: buttonHeight}
	y += buttonHeight + buttonGap
	p.Shot = Rect{X: p.Bounds.X + panelPad, Y: y, W: inner, H: buttonHeight}
}

// Handle turns pointer state into commands. A slider drag keeps tracking
// the pointer until the button is released, even outside the track.
func (p *Panel) Handle(ptr Pointer, sliders []orrery.Slider) []orrery.Command {
	var cmds []orrery.Command
	if ptr.Pressed {
		switch {
		case p.Reset.Contains(ptr.X, ptr.Y):
			cmds = append(cmds, orrery.ResetSpeeds{})
		case p.Shot.Contains(ptr.X, ptr.Y):
			cmds = append(cmds, orrery.Screenshot{})
		default:
			for i, tr := range p.Tracks {
				if grow(tr, 4).Contains(ptr.X, ptr.Y) {
					p.dragging = i
				}
			}
		}
	}
	if !ptr.Down {
		p.dragging = -1
		return cmds
	}

	if p.dragging >= 0 && p.dragging < len(sliders) {
		sl := sliders[p.dragging]
		tr := p.Tracks[p.dragging]
		v := sl.ValueAt(float64((ptr.X - tr.X) / tr.W))
		if v != sl.Value {
			cmds = append(cmds, orrery.SetSpeed{Planet: sl.Planet, Value: v})
		}
	}
	return cmds
}

// Dragging is the index of the slider being dragged, or -1.
func (p *Panel) Dragging() int { return p.dragging }

// Knob is the knob center for a slider.
func (p *Panel) Knob(i int, sl orrery.Slider) (x, y float32) {
	tr := p.Tracks[i]
	return tr.X + tr.W*float32(sl.Fraction()), tr.Y + tr.H/2
}

// BitmapSafe reports whether every rune of s is printable ASCII, the range
// a default bitmap font covers.
func BitmapSafe(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

// SplitDeferred separates commands that read the rendered frame from the
// rest. Screenshots must wait until the frame after any resize has been
// drawn, or they read back an empty surface.
func SplitDeferred(cmds []orrery.Command) (now, afterDraw []orrery.Command) {
	for _, c := range cmds {
		if _, ok := c.(orrery.Screenshot); ok {
			afterDraw = append(afterDraw, c)
			continue
		}
		now = append(now, c)
	}
	return now, afterDraw
}

func grow(r Rect, d float32) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}
