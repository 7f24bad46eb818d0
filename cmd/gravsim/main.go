package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/san-kum/gravsim/internal/world"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	g          float64
	dt         float64
	steps      int
	collision  string
	pathPolicy string
	sampleN    int
	speed      float64
	body       string
	outFile    string
	width      int
	height     int
	gValues    []float64
	parallel   int
	presetName string
	noSave     bool

	logger = log.New(os.Stderr)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "2D gravitational n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json, logfmt)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario headless and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			w, err := cfg.NewWorld()
			if err != nil {
				return err
			}
			return viz.Run(cfg.Name, w, cfg.NewBodies, speed)
		},
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().Float64Var(&speed, "speed", 1, "playback speed")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "watch a scenario in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			w, err := cfg.NewWorld()
			if err != nil {
				return err
			}
			return gui.Run(cfg.Name, w, cfg.NewBodies, speed)
		},
	}
	scenarioFlags(guiCmd)
	guiCmd.Flags().Float64Var(&speed, "speed", 1, "playback speed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trajectory from a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&body, "body", "", "body to plot (default: every body)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	svgCmd := &cobra.Command{
		Use:   "svg [preset]",
		Short: "run a scenario and draw the paths as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	scenarioFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default: <scenario>.svg)")
	svgCmd.Flags().StringVar(&body, "body", "", "draw only this body's trajectory")
	svgCmd.Flags().IntVar(&width, "width", 800, "image width")
	svgCmd.Flags().IntVar(&height, "height", 800, "image height")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a scenario under several values of G concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&gValues, "gs", []float64{50, 100, 200}, "values of G to run")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0: one per CPU)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write a preset as an editable YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(presetName)
			if cfg == nil {
				return unknownPreset(presetName)
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s (preset %s)\n", args[0], presetName)
			return nil
		},
	}
	initCmd.Flags().StringVar(&presetName, "preset", config.DefaultPreset, "preset to write")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, svgCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	switch logFormat {
	case "text":
		logger.SetFormatter(log.TextFormatter)
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}
	return nil
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&g, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&collision, "collision", config.DefaultCollision, "collision test (strict, inclusive)")
	cmd.Flags().StringVar(&pathPolicy, "path", config.DefaultPath, "path recording (sparse, every)")
	cmd.Flags().IntVar(&sampleN, "sample-every", config.DefaultSampleEvery, "steps between saved samples")
}

// loadScenario picks the scenario file or the named preset and applies any
// flags the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		if len(args) > 0 {
			return nil, fmt.Errorf("give either a preset or --config, not both")
		}
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	default:
		name := config.DefaultPreset
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, unknownPreset(name)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.G = g
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("collision") {
		cfg.Collision = collision
	}
	if flags.Changed("path") {
		cfg.Path = pathPolicy
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleN
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("scenario loaded", "name", cfg.Name, "bodies", len(cfg.Bodies), "g", cfg.G, "dt", cfg.Dt, "steps", cfg.Steps)
	return cfg, nil
}

func unknownPreset(name string) error {
	return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
}

func newMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewMomentum(),
		metrics.NewCollisions(),
		metrics.NewMinSeparation(),
	}
}

func simulate(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	w, err := cfg.NewWorld()
	if err != nil {
		return nil, err
	}
	s := sim.New(w,
		sim.WithLogger(logger),
		sim.WithMetrics(newMetrics()...),
		sim.WithSampleEvery(cfg.SampleEvery),
	)
	return s.Run(ctx, cfg.Steps)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, runErr := simulate(ctx, cfg)
	if result == nil {
		return runErr
	}

	fmt.Printf("scenario: %s\n", cfg.Name)
	fmt.Printf("steps:    %d (t=%.2fs)\n", result.Steps, result.Final.Time)
	printMetrics(result.Metrics)
	fmt.Println()
	printBodies(result.Final)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.RunMetadata{
			Scenario:    cfg.Name,
			G:           cfg.G,
			Dt:          cfg.Dt,
			SampleEvery: cfg.SampleEvery,
			Collision:   cfg.Collision,
			Path:        cfg.Path,
		}
		if runErr != nil {
			meta.Fault = runErr.Error()
		}
		id, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", id)
	}

	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s:\t%.6g\n", name, m[name])
	}
	w.Flush()
}

func printBodies(s world.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tMASS\tPOSITION\tVELOCITY")
	for _, b := range s.Bodies {
		fmt.Fprintf(w, "%s\t%g\t%s\t%s\n", b.Name, b.Mass, b.Position.Format(3), b.Velocity.Format(3))
	}
	w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tG\tDT\tCOLLISIONS\tFAULT")

	for _, run := range runs {
		fault := "-"
		if run.Fault != "" {
			fault = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.G,
			run.Dt,
			run.Collisions,
			fault,
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
	table, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	names := meta.Bodies
	if body != "" {
		names = []string{body}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(table.Rows))

	for _, name := range names {
		for _, axis := range []string{"x", "y"} {
			data, ok := table.Column(name + "_" + axis)
			if !ok {
				return fmt.Errorf("run %s has no body %q", runID, name)
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(70),
				asciigraph.Caption(fmt.Sprintf("%s.%s vs sample", name, axis)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	result, runErr := simulate(cmd.Context(), cfg)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("drawing partial run", "err", runErr)
	}

	svg := export.PathsToSVG(result.Final, width, height)
	if body != "" {
		found := false
		for _, b := range result.Final.Bodies {
			if b.Name == body {
				svg = export.TrajectoryToSVG(b.Path, width, height, b.Color)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("scenario %s has no body %q", cfg.Name, body)
		}
		if svg == "" {
			return fmt.Errorf("body %q has fewer than two path points", body)
		}
	}

	if outFile == "" {
		outFile = cfg.Name + ".svg"
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if len(gValues) == 0 {
		return fmt.Errorf("no values of G given")
	}

	factory := func(gv float64) (*world.World, error) {
		c := cfg.Clone()
		c.G = gv
		return c.NewWorld()
	}
	ens := sim.NewEnsemble(factory, newMetrics,
		sim.WithLogger(logger.With("sweep", cfg.Name)),
		sim.WithSampleEvery(cfg.SampleEvery),
	)
	ens.SetLimit(parallel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	members, err := ens.Run(ctx, gValues, cfg.Steps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "G\tSTEPS\tCOLLISIONS\tENERGY DRIFT\tMOMENTUM DRIFT\tMIN GAP\tFAULT")
	for _, m := range members {
		fault := "-"
		if m.Err != nil {
			fault = m.Err.Error()
		}
		r := m.Result
		fmt.Fprintf(w, "%g\t%d\t%d\t%.3e\t%.3e\t%.3f\t%s\n",
			m.G,
			r.Steps,
			r.Collisions,
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
			r.Metrics["min_separation"],
			fault,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tDT\tSTEPS\tCOLLISION\tPATH")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\t%s\t%s\n", name, len(p.Bodies), p.G, p.Dt, p.Steps, p.Collision, p.Path)
	}
	return w.Flush()
}
