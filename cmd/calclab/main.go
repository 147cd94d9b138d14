package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/calclab/internal/config"
	"github.com/san-kum/calclab/internal/logging"
	"github.com/san-kum/calclab/internal/tui"
)

var (
	configFile string
	presetName string
	logLevel   string
	// viewport
	xMin    float64
	xMax    float64
	yMin    float64
	yMax    float64
	samples int
	// derivative
	x0    float64
	step  float64
	order int
	// integral
	boundA   float64
	boundB   float64
	riemannN int
	// output
	format       string
	outFile      string
	showOriginal bool
	port         int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "calclab",
		Short:        "expression plotter and numerical calculus lab",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runExplorer,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "", "start from a preset function")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	addViewportFlags(rootCmd)

	evalCmd := &cobra.Command{
		Use:   "eval [expression] [x...]",
		Short: "evaluate f(x) at the given points",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runEval,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [expression]",
		Short: "sample and plot f(x) over the viewport",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	addViewportFlags(plotCmd)
	addOutputFlags(plotCmd)

	derivCmd := &cobra.Command{
		Use:   "deriv [expression]",
		Short: "first derivative at x0 with its tangent line",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDerivative,
	}
	addViewportFlags(derivCmd)
	addOutputFlags(derivCmd)
	derivCmd.Flags().Float64Var(&x0, "x0", 1, "point of tangency")
	derivCmd.Flags().Float64Var(&step, "h", config.DefaultConfig().Step, "finite difference step")

	nderivCmd := &cobra.Command{
		Use:   "nderiv [expression]",
		Short: "k-th derivative curve and its value at x0",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHigherDerivative,
	}
	addViewportFlags(nderivCmd)
	addOutputFlags(nderivCmd)
	nderivCmd.Flags().Float64Var(&x0, "x0", 1, "point to evaluate the derivative at")
	nderivCmd.Flags().Float64Var(&step, "h", config.DefaultHigherStep, "finite difference step")
	nderivCmd.Flags().IntVar(&order, "order", config.DefaultOrder, "derivative order")
	nderivCmd.Flags().BoolVar(&showOriginal, "show-original", false, "overlay f(x)")

	integrateCmd := &cobra.Command{
		Use:   "integrate [expression]",
		Short: "signed integral and area over [a, b]",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegrate,
	}
	addViewportFlags(integrateCmd)
	addOutputFlags(integrateCmd)
	integrateCmd.Flags().Float64Var(&boundA, "a", 0, "lower bound")
	integrateCmd.Flags().Float64Var(&boundB, "b", 2, "upper bound")
	integrateCmd.Flags().IntVar(&riemannN, "n", config.DefaultConfig().RiemannN, "number of rectangles")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", config.DefaultPort, "listen port")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [expression]",
		Short: "interactive function explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplorer,
	}
	addViewportFlags(tuiCmd)

	rootCmd.AddCommand(evalCmd, plotCmd, derivCmd, nderivCmd, integrateCmd, serveCmd, presetsCmd, tuiCmd)
	return rootCmd
}

func addViewportFlags(cmd *cobra.Command) {
	vp := config.DefaultConfig().Viewport
	cmd.Flags().Float64Var(&xMin, "xmin", vp.XMin, "viewport left edge")
	cmd.Flags().Float64Var(&xMax, "xmax", vp.XMax, "viewport right edge")
	cmd.Flags().Float64Var(&yMin, "ymin", vp.YMin, "viewport bottom edge")
	cmd.Flags().Float64Var(&yMax, "ymax", vp.YMax, "viewport top edge")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultConfig().Samples, "number of sample points")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&format, "format", "f", "ascii", "output format (ascii, csv, json, svg)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write output to file instead of stdout")
}

// loadConfig resolves settings for cmd: defaults, then the preset, then the
// config file, then flags given explicitly on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	applyFlags(cmd, cfg)
	if len(args) > 0 {
		cfg.Expression = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(cfg.Log, cmd.ErrOrStderr())
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("xmin") {
		cfg.Viewport.XMin = xMin
	}
	if flags.Changed("xmax") {
		cfg.Viewport.XMax = xMax
	}
	if flags.Changed("ymin") {
		cfg.Viewport.YMin = yMin
	}
	if flags.Changed("ymax") {
		cfg.Viewport.YMax = yMax
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("x0") {
		cfg.Point = x0
	}
	if flags.Changed("h") {
		if cmd.Name() == "nderiv" {
			cfg.HigherStep = step
		} else {
			cfg.Step = step
		}
	}
	if flags.Changed("order") {
		cfg.Order = order
	}
	if flags.Changed("a") {
		cfg.Bounds.A = boundA
	}
	if flags.Changed("b") {
		cfg.Bounds.B = boundB
	}
	if flags.Changed("n") {
		cfg.RiemannN = riemannN
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
}

func runExplorer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	return tui.Run(cfg)
}
