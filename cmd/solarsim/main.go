package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/solarsim/internal/automation"
	"github.com/san-kum/solarsim/internal/capture"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/gui"
	"github.com/san-kum/solarsim/internal/headless"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/raster"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/viz"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	textureDir string
	outputDir  string
	preset     string
	seed       int64
	width      int
	height     int
	frameRate  int
	stars      int
	elevation  float64
	// headless
	ticks     int
	hz        int
	snapshot  bool
	snapTicks int
	scenario  string
	runs      int
	// run inspection
	plotPlanet     string
	spectrumPlanet string
	axis           string
	outPath        string
	svgSize        int
)

// main registers the commands and runs the window when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "solarsim",
		Short:         "animated 3D solar system",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	rootCmd.SetGlobalNormalizationFunc(underscores)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "run store directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level: "+strings.Join(logging.Levels, ", "))
	pf.StringVar(&textureDir, "textures", config.DefaultTextures, "texture directory")
	pf.StringVar(&outputDir, "output", config.DefaultOutputDir, "screenshot directory")
	pf.StringVar(&preset, "preset", config.DefaultPreset, "speed preset")
	pf.Int64Var(&seed, "seed", 0, "seed for starting angles and stars (0 picks one)")
	pf.IntVar(&width, "width", config.DefaultWidth, "viewport width")
	pf.IntVar(&height, "height", config.DefaultHeight, "viewport height")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	pf.IntVar(&stars, "stars", scene.StarCount, "number of background stars")
	pf.Float64Var(&elevation, "elevation", 0, "camera elevation above the orbital plane, radians")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the window",
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "advance without a display and record the trace",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	runCmd.Flags().IntVar(&hz, "hz", 0, "tick rate (0 runs unpaced)")
	runCmd.Flags().BoolVar(&snapshot, "snapshot", false, "save a screenshot of the final frame")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "scripted scenario file (yaml); replaces --ticks")
	runCmd.Flags().IntVar(&runs, "runs", 1, "record this many runs on consecutive seeds")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to " + capture.FileName,
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapTicks, "ticks", 0, "ticks to advance before rendering")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot planet coordinates of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotPlanet, "planet", "", "planet to plot (default all)")
	plotCmd.Flags().StringVar(&axis, "axis", "x", "coordinate: x or z")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "measure orbital periods of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&spectrumPlanet, "planet", "earth", "planet whose spectrum is plotted")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's orbits as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image width and height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list speed presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  showConfig,
	}
	configCmd.Flags().StringVarP(&outPath, "write", "w", "", "also save it to this file")

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, snapshotCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, SOLARSIM_* environment variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix("solarsim")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	path := configFile
	if p := v.GetString("config"); p != "" {
		path = p
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	setString(v, "preset", &cfg.Preset)
	setString(v, "textures", &cfg.Assets.TextureDir)
	setString(v, "output", &cfg.Assets.OutputDir)
	setString(v, "data", &cfg.Run.DataDir)
	setString(v, "log-level", &cfg.Log.Level)
	setInt(v, "width", &cfg.Window.Width)
	setInt(v, "height", &cfg.Window.Height)
	setInt(v, "fps", &cfg.Window.FPS)
	setInt(v, "stars", &cfg.Scene.Stars)
	setInt(v, "ticks", &cfg.Run.Ticks)
	setInt(v, "hz", &cfg.Run.Hz)
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("elevation") {
		cfg.Camera.SetElevation(v.GetFloat64("elevation"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

// setup resolves config, logger, system and scene graph for a command.
func setup(cmd *cobra.Command, logOut *os.File) (*config.Config, log.Logger, *orrery.System, *scene.Graph, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, err := logging.New(logOut, cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	opts, err := cfg.SystemOptions()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sys, err := orrery.New(opts)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	level.Debug(logger).Log("msg", "system ready", "preset", cfg.Preset, "seed", opts.Seed, "viewport", fmt.Sprintf("%dx%d", opts.Viewport.Width, opts.Viewport.Height))
	return cfg, logger, sys, scene.Build(sys, cfg.BuildOptions()), nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, logger, sys, g, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	return gui.Run(sys, g, gui.Options{
		FPS:       cfg.Window.FPS,
		Title:     cfg.Window.Title,
		OutputDir: cfg.Assets.OutputDir,
		Logger:    logger,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The terminal is taken over, so logs go to a file.
	logFile, err := tea.LogToFile(filepath.Join(os.TempDir(), "solarsim-tui.log"), "")
	if err != nil {
		return err
	}
	defer logFile.Close()

	cfg, logger, sys, g, err := setup(cmd, logFile)
	if err != nil {
		return err
	}
	m := viz.NewModel(sys, g, viz.Options{
		FPS:        cfg.Window.FPS,
		OutputDir:  cfg.Assets.OutputDir,
		ShotWidth:  cfg.Window.Width,
		ShotHeight: cfg.Window.Height,
		Logger:     logger,
	})
	return viz.Run(m)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, logger, sys, g, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	if runs > 1 {
		if scenario != "" {
			return fmt.Errorf("--scenario and --runs cannot be combined")
		}
		return runEnsemble(cmd.Context(), cfg, logger, sys)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sys.AttachSurface(func() error {
		path, err := renderSnapshot(cfg, g, sys)
		if err == nil {
			level.Info(logger).Log("msg", "screenshot saved", "path", path, "tick", sys.Ticks())
		}
		return err
	})

	rec := headless.NewRecorder()
	hcfg := headless.Config{Hz: cfg.Run.Hz, Ticks: uint64(cfg.Run.Ticks), Logger: logger}
	if scenario != "" {
		sc, loadErr := automation.LoadScenario(scenario)
		if loadErr != nil {
			return loadErr
		}
		level.Info(logger).Log("msg", "running scenario", "name", sc.Name, "steps", len(sc.Steps), "ticks", sc.TotalTicks())
		err = automation.RunScenario(ctx, sys, sc, hcfg, rec.Observe)
	} else {
		err = headless.Run(ctx, sys, hcfg, rec.Observe)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		level.Warn(logger).Log("msg", "interrupted, saving partial run", "ticks", sys.Ticks())
	}

	runID, err := saveRun(cfg, sys, rec)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "run saved", "id", runID, "ticks", sys.Ticks())
	fmt.Println(runID)

	if snapshot {
		if err := sys.Dispatch(orrery.Screenshot{}); err != nil {
			level.Error(logger).Log("msg", "screenshot failed", "err", err)
		}
	}
	return nil
}

// runEnsemble records --runs systems concurrently, starting from the seed
// the template system was built with.
func runEnsemble(ctx context.Context, cfg *config.Config, logger log.Logger, template *orrery.System) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	opts, err := cfg.SystemOptions()
	if err != nil {
		return err
	}
	ens := headless.NewEnsemble(opts, runs, template.Seed())
	members, err := ens.Run(ctx, headless.Config{Ticks: uint64(cfg.Run.Ticks), Logger: logger})
	if err != nil {
		return err
	}

	for _, m := range members {
		runID, err := saveRun(cfg, m.System, m.Recorder)
		if err != nil {
			return err
		}
		level.Info(logger).Log("msg", "run saved", "id", runID, "seed", m.Seed)
		fmt.Println(runID)
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, logger, sys, g, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	sys.Advance(snapTicks)
	path, err := renderSnapshot(cfg, g, sys)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "screenshot saved", "path", path)
	fmt.Println(path)
	return nil
}

// renderSnapshot saves the current frame at the system viewport, which
// follows any scripted resize.
func renderSnapshot(cfg *config.Config, g *scene.Graph, sys *orrery.System) (string, error) {
	return capture.Save(raster.Snapshot(sys, g), cfg.Assets.OutputDir)
}

func listPresets(cmd *cobra.Command, args []string) error {
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("%-10s %s\n", name, p.Description)
		speeds := make([]string, 0, len(orrery.Descriptors))
		for _, d := range orrery.Descriptors {
			speeds = append(speeds, fmt.Sprintf("%s=%.3f", d.Name, p.Speeds[d.Name]))
		}
		fmt.Printf("           %s\n", strings.Join(speeds, " "))
		if p.Elevation != 0 {
			fmt.Printf("           elevation=%.2f\n", p.Elevation)
		}
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := config.Save(outPath, cfg); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

// underscores accepts --log_level for --log-level, matching the yaml keys.
func underscores(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
