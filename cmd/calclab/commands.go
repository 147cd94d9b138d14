package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/calclab/internal/calculus"
	"github.com/san-kum/calclab/internal/config"
	"github.com/san-kum/calclab/internal/export"
	"github.com/san-kum/calclab/internal/expr"
	"github.com/san-kum/calclab/internal/httpapi"
	"github.com/san-kum/calclab/internal/viz"
)

const (
	svgWidth  = 800
	svgHeight = 500
)

// outcome is what a calculus command hands to the output formats.
type outcome struct {
	operation string
	series    []viz.Series
	params    []field
	results   []field
	area      *export.Area
	err       error
}

type field struct {
	name  string
	value float64
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	f, compileErr := expr.Func(cfg.Expression)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "x\tf(x)")
	for _, arg := range args[1:] {
		x, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", arg, err)
		}
		fmt.Fprintf(w, "%g\t%g\n", x, f(x))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if compileErr != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nerror: %v\n", compileErr)
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Budget)
	defer cancel()

	d := cfg.Domain()
	pts, err := calculus.PointsContext(ctx, cfg.Expression, d)
	if errors.Is(err, calculus.ErrBudgetExceeded) {
		return err
	}
	if err == nil {
		err = calculus.CheckCurve(cfg.Expression, d, pts)
	}
	slog.Debug("sampled expression", "expression", cfg.Expression, "requested", d.N, "points", len(pts))

	return emit(cmd, cfg, outcome{
		operation: "plot",
		series:    []viz.Series{{Name: "f(x)", Samples: pts}},
		params:    []field{{"samples", float64(d.N)}},
		results:   []field{{"points", float64(len(pts))}},
		err:       err,
	})
}

func runDerivative(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	d := cfg.Domain()
	curve := calculus.SamplePoints(cfg.Expression, d)
	tangent, line := calculus.TangentLine(cfg.Expression, cfg.Point, cfg.Step, d)
	slog.Debug("derivative", "expression", cfg.Expression, "x0", cfg.Point, "h", cfg.Step, "slope", tangent.Slope)

	err = calculus.CheckCurve(cfg.Expression, d, curve)
	if err == nil {
		err = calculus.Check(cfg.Expression, tangent.Slope)
	}

	return emit(cmd, cfg, outcome{
		operation: "derivative",
		series: []viz.Series{
			{Name: "f(x)", Samples: curve},
			{Name: "tangent", Samples: line},
		},
		params:  []field{{"x0", cfg.Point}, {"h", cfg.Step}},
		results: []field{{"f(x0)", tangent.Y0}, {"f'(x0)", tangent.Slope}},
		err:     err,
	})
}

func runHigherDerivative(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Budget)
	defer cancel()

	d := cfg.Domain()
	curve, err := calculus.HigherDerivativeContext(ctx, cfg.Expression, d, cfg.HigherStep, cfg.Order)
	if errors.Is(err, calculus.ErrBudgetExceeded) {
		return err
	}
	if err == nil {
		err = calculus.CheckCurve(cfg.Expression, d, curve)
	}
	value := calculus.HigherDerivative(cfg.Expression, cfg.Point, cfg.HigherStep, cfg.Order)
	slog.Debug("higher derivative", "expression", cfg.Expression, "order", cfg.Order, "points", len(curve))

	var series []viz.Series
	if showOriginal {
		series = append(series, viz.Series{Name: "f(x)", Samples: calculus.SamplePoints(cfg.Expression, d)})
	}
	series = append(series, viz.Series{Name: fmt.Sprintf("d%d/dx%d f", cfg.Order, cfg.Order), Samples: curve})

	return emit(cmd, cfg, outcome{
		operation: "higher-derivative",
		series:    series,
		params:    []field{{"order", float64(cfg.Order)}, {"x0", cfg.Point}, {"h", cfg.HigherStep}},
		results:   []field{{"value", value}, {"points", float64(len(curve))}},
		err:       err,
	})
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Budget)
	defer cancel()

	a, b, n := cfg.Bounds.A, cfg.Bounds.B, cfg.RiemannN
	integral, err := calculus.IntegralContext(ctx, cfg.Expression, a, b, n)
	if errors.Is(err, calculus.ErrBudgetExceeded) {
		return err
	}
	area, areaErr := calculus.AreaContext(ctx, cfg.Expression, a, b, n)
	if errors.Is(areaErr, calculus.ErrBudgetExceeded) {
		return areaErr
	}
	if err == nil {
		err = areaErr
	}
	slog.Debug("integral", "expression", cfg.Expression, "a", a, "b", b, "n", n, "integral", integral, "area", area)

	d := cfg.Domain()
	curve := calculus.SamplePoints(cfg.Expression, d)

	return emit(cmd, cfg, outcome{
		operation: "integral",
		series:    []viz.Series{{Name: "f(x)", Samples: curve}},
		params:    []field{{"a", a}, {"b", b}, {"n", float64(n)}},
		results:   []field{{"integral", integral}, {"area", area}},
		area: &export.Area{
			A:       a,
			B:       b,
			Samples: calculus.AreaCurve(cfg.Expression, a, b, cfg.Samples),
		},
		err: err,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return httpapi.Run(ctx, cfg, slog.Default())
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXPRESSION\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Expression, p.Description)
	}
	return w.Flush()
}

func emit(cmd *cobra.Command, cfg *config.Config, out outcome) error {
	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}

	switch format {
	case "ascii", "":
		err = writeASCII(w, cfg, out)
	case "csv":
		err = export.WriteCSV(w, out.series)
	case "json":
		err = export.WriteJSON(w, report(cfg, out))
	case "svg":
		theme := viz.GetTheme(cfg.Theme)
		_, err = io.WriteString(w, export.SVG(out.series, cfg.Viewport, svgWidth, svgHeight, theme, out.area))
	default:
		err = fmt.Errorf("unknown format: %s (available: ascii, csv, json, svg)", format)
	}

	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err == nil && outFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outFile)
	}
	return err
}

func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeASCII(w io.Writer, cfg *config.Config, out outcome) error {
	opts := viz.Options{
		Width:   viz.DefaultWidth,
		Height:  viz.DefaultHeight,
		Caption: cfg.Expression,
		Theme:   viz.GetTheme(cfg.Theme),
	}

	var chart string
	if out.area != nil {
		chart = viz.AreaChart(out.series[0].Samples, out.area.A, out.area.B, cfg.Viewport, opts)
	} else {
		chart = viz.Render(out.series, cfg.Viewport, opts)
	}
	fmt.Fprintf(w, "%s\n\n", chart)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range out.params {
		fmt.Fprintf(tw, "  %s\t%g\n", f.name, f.value)
	}
	for _, f := range out.results {
		fmt.Fprintf(tw, "  %s\t%s\n", f.name, formatValue(f.value))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if out.err != nil {
		fmt.Fprintf(w, "\nerror: %v\n", out.err)
	}
	return nil
}

func report(cfg *config.Config, out outcome) export.Report {
	vp := cfg.Viewport
	r := export.Report{
		Expression: cfg.Expression,
		Operation:  out.operation,
		Viewport:   &vp,
		Params:     make(map[string]export.Number, len(out.params)),
		Results:    make(map[string]export.Number, len(out.results)),
		Series:     make(map[string][]calculus.Sample, len(out.series)),
	}
	for _, f := range out.params {
		r.Params[f.name] = export.Number(f.value)
	}
	for _, f := range out.results {
		r.Results[f.name] = export.Number(f.value)
	}
	for _, s := range out.series {
		r.Series[s.Name] = s.Samples
	}
	if out.err != nil {
		r.Error = out.err.Error()
	}
	return r
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 10, 64)
}
