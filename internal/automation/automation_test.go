package automation

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/solarsim/internal/capture"
	"github.com/san-kum/solarsim/internal/headless"
	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/raster"
	"github.com/san-kum/solarsim/internal/scene"
)

const demo = `
name: demo
description: speed up earth, shrink, reset
steps:
  - ticks: 100
  - speeds:
      earth: 0.05
      mars: 0.2
    ticks: 50
  - resize:
      width: 600
      height: 800
    screenshot: true
  - reset: true
    ticks: 25
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newSystem(t *testing.T) *orrery.System {
	t.Helper()
	sys, err := orrery.New(orrery.Options{Viewport: orrery.Viewport{Width: 1280, Height: 720}, Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, demo))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 4 {
		t.Fatalf("scenario = %+v", sc)
	}
	if sc.TotalTicks() != 175 {
		t.Errorf("total ticks = %d, want 175", sc.TotalTicks())
	}
	if sc.Steps[2].Resize == nil || sc.Steps[2].Resize.Width != 600 {
		t.Errorf("resize step = %+v", sc.Steps[2])
	}
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty", "name: nothing\n", ErrEmptyScenario},
		{"negative ticks", "steps:\n  - ticks: -5\n", nil},
	}
	for _, tt := range tests {
		_, err := LoadScenario(writeScenario(t, tt.body))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestStepCommands_Order(t *testing.T) {
	step := ScenarioStep{
		Reset:      true,
		Speeds:     map[string]float64{"venus": 0.02, "earth": 0.01},
		Resize:     &Size{Width: 10, Height: 10},
		Screenshot: true,
	}
	cmds := step.Commands()
	if len(cmds) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(cmds))
	}
	if _, ok := cmds[0].(orrery.ResetSpeeds); !ok {
		t.Errorf("first command %T", cmds[0])
	}
	if s, ok := cmds[1].(orrery.SetSpeed); !ok || s.Planet != "earth" {
		t.Errorf("second command %+v", cmds[1])
	}
	if _, ok := cmds[4].(orrery.Screenshot); !ok {
		t.Errorf("last command %T", cmds[4])
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, demo))
	if err != nil {
		t.Fatal(err)
	}
	sys := newSystem(t)

	shots := 0
	sys.AttachSurface(func() error { shots++; return nil })

	var earthAtStepTwo float64
	observe := func(s *orrery.System) error {
		if s.Ticks() == 150 {
			p, _ := s.Planet("earth")
			earthAtStepTwo = p.Speed
		}
		return nil
	}

	if err := RunScenario(context.Background(), sys, sc, headless.Config{}, observe); err != nil {
		t.Fatal(err)
	}
	if sys.Ticks() != 175 {
		t.Errorf("ticks = %d, want 175", sys.Ticks())
	}
	if earthAtStepTwo != 0.05 {
		t.Errorf("earth speed during step 2 = %f, want 0.05", earthAtStepTwo)
	}
	if shots != 1 {
		t.Errorf("screenshots = %d, want 1", shots)
	}
	if vp := sys.Viewport(); vp.Width != 600 || vp.Height != 800 {
		t.Errorf("viewport = %+v", vp)
	}
	earth, _ := sys.Planet("earth")
	if earth.Speed != 0.03 {
		t.Errorf("earth speed after reset = %f, want 0.03", earth.Speed)
	}
}

func TestRunScenario_ScreenshotWithoutSurface(t *testing.T) {
	sc := &Scenario{Name: "shot", Steps: []ScenarioStep{{Screenshot: true, Ticks: 3}}}
	sys := newSystem(t)
	if err := RunScenario(context.Background(), sys, sc, headless.Config{}, nil); err != nil {
		t.Fatalf("a failed screenshot should not stop the scenario: %v", err)
	}
	if sys.Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", sys.Ticks())
	}
}

func TestRunScenario_BadCommand(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Speeds: map[string]float64{"pluto": 0.01}}}}
	err := RunScenario(context.Background(), newSystem(t), sc, headless.Config{}, nil)
	if !errors.Is(err, orrery.ErrUnknownPlanet) {
		t.Errorf("expected ErrUnknownPlanet, got %v", err)
	}
}

func TestRunScenario_ScreenshotAfterResize(t *testing.T) {
	sc := &Scenario{Name: "shrink", Steps: []ScenarioStep{
		{Ticks: 5},
		{Resize: &Size{Width: 64, Height: 48}, Screenshot: true},
	}}
	sys := newSystem(t)
	opts := scene.DefaultBuildOptions()
	opts.StarCount = 20
	g := scene.Build(sys, opts)

	dir := t.TempDir()
	sys.AttachSurface(func() error {
		_, err := capture.Save(raster.Snapshot(sys, g), dir)
		return err
	})

	if err := RunScenario(context.Background(), sys, sc, headless.Config{}, nil); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, capture.FileName))
	if err != nil {
		t.Fatalf("screenshot not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("screenshot %dx%d, want 64x48", cfg.Width, cfg.Height)
	}
}
