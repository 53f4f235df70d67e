package viz

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/solarsim/internal/capture"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/scene"
)

func newTestModel(t *testing.T) (*Model, *orrery.System) {
	t.Helper()
	sys, err := orrery.New(orrery.Options{Viewport: orrery.Viewport{Width: 72, Height: 96}, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	opts := scene.DefaultBuildOptions()
	opts.StarCount = 50
	g := scene.Build(sys, opts)
	m := NewModel(sys, g, Options{OutputDir: t.TempDir(), ShotWidth: 96, ShotHeight: 64})
	return m, sys
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func speedOf(t *testing.T, sys *orrery.System, name string) float64 {
	t.Helper()
	p, ok := sys.Planet(name)
	if !ok {
		t.Fatalf("planet %s missing", name)
	}
	return p.Speed
}

func TestModel_SelectAndAdjust(t *testing.T) {
	m, sys := newTestModel(t)

	m.Update(key("tab"))
	if m.Selected() != "venus" {
		t.Fatalf("selected %s, want venus", m.Selected())
	}

	m.Update(key("up"))
	if got := speedOf(t, sys, "venus"); math.Abs(got-0.036) > 1e-12 {
		t.Errorf("venus speed = %f, want 0.036", got)
	}
	m.Update(key("j"))
	m.Update(key("j"))
	if got := speedOf(t, sys, "venus"); math.Abs(got-0.034) > 1e-12 {
		t.Errorf("venus speed = %f, want 0.034", got)
	}
	if got := speedOf(t, sys, "mercury"); got != 0.04 {
		t.Errorf("mercury speed changed to %f", got)
	}
}

func TestModel_SelectWraps(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Selected() != "neptune" {
		t.Errorf("selected %s, want neptune", m.Selected())
	}
}

func TestModel_AdjustClampsAtBounds(t *testing.T) {
	m, sys := newTestModel(t)
	for i := 0; i < 200; i++ {
		m.Update(key("k"))
	}
	if got := speedOf(t, sys, "mercury"); got != orrery.SpeedMax {
		t.Errorf("mercury speed = %f, want %f", got, orrery.SpeedMax)
	}
}

func TestModel_Reset(t *testing.T) {
	m, sys := newTestModel(t)
	m.Update(key("up"))
	m.Update(key("r"))
	if got := speedOf(t, sys, "mercury"); got != 0.04 {
		t.Errorf("mercury speed = %f after reset, want 0.04", got)
	}
}

func TestModel_TickAdvances(t *testing.T) {
	m, sys := newTestModel(t)

	_, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if sys.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", sys.Ticks())
	}

	m.Update(key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m.Update(TickMsg(time.Now()))
	if sys.Ticks() != 1 {
		t.Errorf("paused tick advanced to %d", sys.Ticks())
	}
}

func TestModel_Resize(t *testing.T) {
	m, sys := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	vp := sys.Viewport()
	if vp.Width != (120-statsWidth)*2 || vp.Height != 39*4 {
		t.Errorf("viewport = %dx%d", vp.Width, vp.Height)
	}
	if want := float64(vp.Width) / float64(vp.Height); sys.Projection().Aspect != want {
		t.Errorf("aspect = %f, want %f", sys.Projection().Aspect, want)
	}

	m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	if sys.Viewport() != vp {
		t.Error("a too-small terminal should keep the previous viewport")
	}
}

func TestModel_Screenshot(t *testing.T) {
	m, sys := newTestModel(t)
	before := sys.Planets()

	m.Update(key("s"))

	path := filepath.Join(m.opts.OutputDir, capture.FileName)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("screenshot not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("screenshot is empty")
	}
	if !strings.Contains(m.Status(), capture.FileName) {
		t.Errorf("status = %q", m.Status())
	}
	after := sys.Planets()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("%s changed during screenshot", before[i].Name)
		}
	}
}

func TestModel_ExportCanvas(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(key("v"))

	data, err := os.ReadFile(filepath.Join(m.opts.OutputDir, export.FileName))
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(data), "<circle") {
		t.Error("exported canvas has no dots")
	}
	if !strings.Contains(m.Status(), export.FileName) {
		t.Errorf("status = %q", m.Status())
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 3; i++ {
		m.Update(TickMsg(time.Now()))
	}
	out := m.View()

	for _, want := range []string{"SOLAR SYSTEM", "mercury speed", "neptune speed", "[R] Reset Speeds", "[S] 📸 Take Screenshot"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.canvas.Lit() == 0 {
		t.Error("canvas is blank")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Dots(); w != 8 || h != 8 {
		t.Fatalf("dots = %dx%d, want 8x8", w, h)
	}

	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.Lit() != 2 {
		t.Errorf("lit = %d, want 2", c.Lit())
	}
	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("cell = %U", c.Grid[0][0])
	}

	c.Clear()
	c.FillCircle(4, 4, 2)
	if c.Lit() < 9 {
		t.Errorf("circle lit only %d dots", c.Lit())
	}

	c.Clear()
	c.DrawLine(0, 0, 7, 0)
	if c.Lit() != 8 {
		t.Errorf("line lit %d dots, want 8", c.Lit())
	}
}
