package viz

import (
	"math"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/calclab/internal/calculus"
)

const (
	DefaultWidth  = 72
	DefaultHeight = 18
)

// Series is one labelled curve of a chart.
type Series struct {
	Name    string
	Samples []calculus.Sample
}

type Options struct {
	Width   int
	Height  int
	Caption string
	Theme   Theme
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w < 2 {
		w = DefaultWidth
	}
	if h < 2 {
		h = DefaultHeight
	}
	return w, h
}

// Render plots every series over vp with asciigraph. Points outside the
// viewport's Y range and gaps left by dropped samples are not drawn.
func Render(series []Series, vp calculus.Viewport, opts Options) string {
	width, height := opts.size()

	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	names := make([]string, len(series))
	for i, s := range series {
		data[i] = Clip(Resample(s.Samples, vp, width), vp)
		colors[i] = opts.Theme.SeriesColor(i)
		names[i] = s.Name
	}
	if len(data) == 0 {
		data = [][]float64{nanRow(width)}
	}

	options := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.LowerBound(vp.YMin),
		asciigraph.UpperBound(vp.YMax),
		asciigraph.SeriesColors(colors...),
		asciigraph.AxisColor(opts.Theme.Axis),
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	if len(series) > 1 {
		options = append(options, asciigraph.SeriesLegends(names...))
	}
	return asciigraph.PlotMany(data, options...)
}

// Resample maps samples onto width evenly spaced columns spanning the
// viewport's X range by linear interpolation. A column is NaN when it falls
// outside the samples or between two samples further apart than the
// sampling step, which is where non-finite points were dropped.
func Resample(samples []calculus.Sample, vp calculus.Viewport, width int) []float64 {
	out := nanRow(width)
	if len(samples) == 0 || width < 2 || !(vp.XMin < vp.XMax) {
		return out
	}

	gap := maxGap(samples)
	for c := range out {
		x := vp.XMin + float64(c)*(vp.XMax-vp.XMin)/float64(width-1)
		j := sort.Search(len(samples), func(i int) bool { return samples[i].X >= x })
		switch {
		case j < len(samples) && samples[j].X == x:
			out[c] = samples[j].Y
		case j == 0 || j == len(samples):
		default:
			s0, s1 := samples[j-1], samples[j]
			if s1.X-s0.X > gap {
				continue
			}
			t := (x - s0.X) / (s1.X - s0.X)
			out[c] = s0.Y + t*(s1.Y-s0.Y)
		}
	}
	return out
}

// Clip blanks values outside the viewport's Y range. It modifies ys in place
// and returns it.
func Clip(ys []float64, vp calculus.Viewport) []float64 {
	for i, y := range ys {
		if !vp.Contains(y) {
			ys[i] = math.NaN()
		}
	}
	return ys
}

// maxGap is the largest spacing still treated as contiguous: one and a
// half times the smallest spacing between consecutive samples.
func maxGap(samples []calculus.Sample) float64 {
	step := math.Inf(1)
	for i := 1; i < len(samples); i++ {
		if d := samples[i].X - samples[i-1].X; d > 0 && d < step {
			step = d
		}
	}
	return 1.5 * step
}

func nanRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = math.NaN()
	}
	return row
}
