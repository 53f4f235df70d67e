package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/scene"
)

const (
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultFPS       = 60
	DefaultTitle     = "Solar System"
	DefaultPreset    = "classic"
	DefaultTicks     = 3000
	DefaultTextures  = "textures"
	DefaultOutputDir = "."
	DefaultDataDir   = "runs"
)

var (
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrInvalid       = errors.New("config: invalid value")
)

type Config struct {
	Preset string             `yaml:"preset"`
	Seed   int64              `yaml:"seed"`
	Speeds map[string]float64 `yaml:"speeds,omitempty"`
	Window WindowConfig       `yaml:"window"`
	Camera CameraConfig       `yaml:"camera"`
	Scene  SceneConfig        `yaml:"scene"`
	Assets AssetsConfig       `yaml:"assets"`
	Run    RunConfig          `yaml:"run"`
	Log    LogConfig          `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Title  string `yaml:"title"`
}

// CameraConfig overrides the preset's camera. A nil elevation keeps the
// preset value; an explicit zero levels the camera.
type CameraConfig struct {
	Elevation *float64 `yaml:"elevation,omitempty"`
}

func (c *CameraConfig) SetElevation(v float64) { c.Elevation = &v }

type SceneConfig struct {
	Stars      int     `yaml:"stars"`
	StarSpread float64 `yaml:"star_spread"`
}

type AssetsConfig struct {
	TextureDir string `yaml:"texture_dir"`
	OutputDir  string `yaml:"output_dir"`
}

// RunConfig drives the headless runner. Hz of zero runs unpaced.
type RunConfig struct {
	Ticks   int    `yaml:"ticks"`
	Hz      int    `yaml:"hz"`
	DataDir string `yaml:"data_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset: DefaultPreset,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Title:  DefaultTitle,
		},
		Scene: SceneConfig{
			Stars:      scene.StarCount,
			StarSpread: scene.StarSpread,
		},
		Assets: AssetsConfig{
			TextureDir: DefaultTextures,
			OutputDir:  DefaultOutputDir,
		},
		Run: RunConfig{
			Ticks:   DefaultTicks,
			DataDir: DefaultDataDir,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SpeedTable resolves the default speed table: the preset's speeds with any
// per-planet overrides on top. The result is validated.
func (c *Config) SpeedTable() (orrery.SpeedTable, error) {
	p := GetPreset(c.Preset)
	if p == nil {
		return nil, fmt.Errorf("%q: %w", c.Preset, ErrUnknownPreset)
	}
	table := p.Speeds.Clone()
	for name, v := range c.Speeds {
		table[name] = v
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("speeds: %w", err)
	}
	return table, nil
}

func (c *Config) Elevation() float64 {
	if c.Camera.Elevation != nil {
		return *c.Camera.Elevation
	}
	if p := GetPreset(c.Preset); p != nil {
		return p.Elevation
	}
	return 0
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalid)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("fps %d: %w", c.Window.FPS, ErrInvalid)
	}
	if c.Scene.Stars < 0 || c.Scene.StarSpread <= 0 {
		return fmt.Errorf("starfield %d/%g: %w", c.Scene.Stars, c.Scene.StarSpread, ErrInvalid)
	}
	if c.Run.Ticks < 0 || c.Run.Hz < 0 {
		return fmt.Errorf("run ticks %d hz %d: %w", c.Run.Ticks, c.Run.Hz, ErrInvalid)
	}
	if c.Run.Ticks == 0 && c.Run.Hz == 0 {
		return fmt.Errorf("run: unpaced with no tick limit: %w", ErrInvalid)
	}
	_, err := c.SpeedTable()
	return err
}

// SystemOptions turns the config into orrery options. A zero seed picks one
// from the clock, so every launch gets different starting angles.
func (c *Config) SystemOptions() (orrery.Options, error) {
	speeds, err := c.SpeedTable()
	if err != nil {
		return orrery.Options{}, err
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return orrery.Options{
		Viewport:  orrery.Viewport{Width: c.Window.Width, Height: c.Window.Height},
		Speeds:    speeds,
		Seed:      seed,
		Elevation: c.Elevation(),
	}, nil
}

func (c *Config) BuildOptions() scene.BuildOptions {
	return scene.BuildOptions{
		TextureDir: c.Assets.TextureDir,
		StarCount:  c.Scene.Stars,
		StarSpread: c.Scene.StarSpread,
	}
}
