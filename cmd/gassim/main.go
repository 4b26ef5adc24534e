package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/nzakhir/brownian-motion-simulation/internal/config"
	"github.com/nzakhir/brownian-motion-simulation/internal/export"
	"github.com/nzakhir/brownian-motion-simulation/internal/gas"
	"github.com/nzakhir/brownian-motion-simulation/internal/metrics"
	"github.com/nzakhir/brownian-motion-simulation/internal/storage"
	"github.com/nzakhir/brownian-motion-simulation/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir         string
	particles       int
	mass            float64
	radius          float64
	containerRadius float64
	sigma           float64
	steps           int
	seed            int64
	workers         int
	configFile      string
	preset          string
	frameRate       int
	svgOut          string
	svgSize         int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gassim",
		Short: "event-driven hard-disc gas simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gassim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		RunE:  runSimulation,
	}
	addEngineFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		RunE:  runLive,
	}
	addEngineFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "run simulation and render the final snapshot to SVG",
		RunE:  exportSVG,
	}
	addEngineFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "snapshot.svg", "output file")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image side length in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s %d particles, radius %.2g, container %.2g\n",
					name, p.Particles, p.Radius, p.ContainerRadius)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "particle mass")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "particle radius")
	cmd.Flags().Float64Var(&containerRadius, "container", config.DefaultContainerRadius, "container radius")
	cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "initial velocity spread")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "collisions to resolve")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&workers, "workers", 1, "prediction sweep workers")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and flags: the preset is the
// base, the file overrides it, and explicitly changed flags win.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("mass") {
		cfg.Mass = mass
	}
	if cmd.Flags().Changed("radius") {
		cfg.Radius = radius
	}
	if cmd.Flags().Changed("container") {
		cfg.ContainerRadius = containerRadius
	}
	if cmd.Flags().Changed("sigma") {
		cfg.Sigma = sigma
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, nil
}

func newEngine(cfg *config.Config) (*gas.Engine, error) {
	engine, err := gas.New(cfg.Engine())
	if err != nil {
		return nil, err
	}
	if err := engine.Initialise(); err != nil {
		return nil, err
	}
	return engine, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	runMetrics := []gas.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewMeanPressure(),
		metrics.NewWallRate(),
	}
	for _, m := range runMetrics {
		engine.AddMetric(m)
	}

	fmt.Printf("running %d particles for %d collisions...\n", cfg.Particles, cfg.Steps)
	start := time.Now()

	err = engine.Run(context.Background(), cfg.Steps)
	var stepErr *gas.StepError
	if errors.As(err, &stepErr) {
		fmt.Fprintf(os.Stderr, "simulation stopped: %v\n", stepErr)
	} else if err != nil {
		return err
	}

	elapsed := time.Since(start)
	d := engine.Diagnostics()

	results := make(map[string]float64, len(runMetrics))
	for _, m := range runMetrics {
		results[m.Name()] = m.Value()
	}

	runID, err := st.Save(cfg, d.Collisions, results, engine.Samples())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("collisions: %d (%d wall)\n", d.Collisions, d.WallCollisions)
	fmt.Printf("pressure: %.6f\n", d.Pressure)
	fmt.Println("\nmetrics:")
	for name, val := range results {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(engine, frameRate))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tRADIUS\tCONTAINER\tCOLLISIONS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3g\t%.3g\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Radius,
			run.ContainerRadius,
			run.Collisions,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(samples))

	energy := make([]float64, len(samples))
	pressure := make([]float64, len(samples))
	for i, s := range samples {
		energy[i] = s.Kinetic
		pressure[i] = s.Pressure
	}

	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(pressure,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("pressure estimate"),
	))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "kinetic_energy", "momentum_x", "momentum_y", "pressure", "wall"}); err != nil {
		return err
	}
	for _, s := range samples {
		wall := "0"
		if s.Wall {
			wall = "1"
		}
		row := []string{
			strconv.FormatFloat(s.Clock, 'f', 9, 64),
			strconv.FormatFloat(s.Kinetic, 'f', 9, 64),
			strconv.FormatFloat(s.Momentum.X, 'f', 9, 64),
			strconv.FormatFloat(s.Momentum.Y, 'f', 9, 64),
			strconv.FormatFloat(s.Pressure, 'f', 9, 64),
			wall,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	if err := engine.Run(context.Background(), cfg.Steps); err != nil {
		var stepErr *gas.StepError
		if !errors.As(err, &stepErr) {
			return err
		}
		fmt.Fprintf(os.Stderr, "simulation stopped: %v\n", stepErr)
	}

	container, discs := engine.Snapshot()
	svg := export.SnapshotToSVG(container, discs, svgSize)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s after %d collisions\n", svgOut, engine.Diagnostics().Collisions)
	return nil
}
