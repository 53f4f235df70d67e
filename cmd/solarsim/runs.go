package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/solarsim/internal/analysis"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/headless"
	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/storage"
)

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Run.DataDir), nil
}

// saveRun stores a recording. Speeds are those of the first recorded tick;
// planets changed later are listed as mixed and get no period metric.
func saveRun(cfg *config.Config, sys *orrery.System, rec *headless.Recorder) (string, error) {
	st := storage.New(cfg.Run.DataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	speeds := rec.Speeds()
	if speeds == nil {
		speeds = make(map[string]float64, len(orrery.Descriptors))
		for _, p := range sys.Planets() {
			speeds[p.Name] = p.Speed
		}
	}
	meta := storage.RunMetadata{
		Preset:      cfg.Preset,
		Seed:        sys.Seed(),
		Speeds:      speeds,
		MixedSpeeds: rec.Mixed(),
		Metrics: map[string]float64{
			"camera_angle": sys.Camera().Angle,
		},
	}
	for _, r := range analysis.AnalyzeRun(meta, rec.Trace()) {
		if r.Err == nil {
			meta.Metrics[r.Planet+"_period"] = r.Measured
		}
	}

	return st.Save(meta, rec.Trace())
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("ticks: %d\n\n", trace.Len())

	names := trace.Planets
	if plotPlanet != "" {
		names = []string{plotPlanet}
	}
	for _, name := range names {
		data, err := trace.Series(name, axis)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s vs tick", name, axis)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLANET\tSPEED\tEXPECTED\tMEASURED\tERROR")
	for _, r := range analysis.AnalyzeRun(*meta, trace) {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t%.3f\t%.1f\t-\t%v\n", r.Planet, r.Speed, r.Expected, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.1f\t%.1f\t%.2f%%\n", r.Planet, r.Speed, r.Expected, r.Measured, 100*r.RelativeError())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	xs, err := trace.Series(spectrumPlanet, "x")
	if err != nil {
		return err
	}
	spectrum := analysis.PowerSpectrum(xs)
	if len(spectrum) < 2 {
		return nil
	}
	// Orbits are slow; the interesting part is the low end of the spectrum.
	plotData := spectrum[1:int(math.Min(float64(len(spectrum)), 200))]
	fmt.Println()
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s x)", spectrumPlanet)),
	))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	if outPath == "" {
		return st.ExportRun(os.Stdout, args[0])
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := st.ExportRun(f, args[0]); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	svg, err := export.OrbitsToSVG(trace, svgSize)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err := fmt.Fprintln(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}
