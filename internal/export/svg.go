package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/calclab/internal/calculus"
	"github.com/san-kum/calclab/internal/viz"
)

// Area is a region between a curve and the x-axis, shaded in an SVG plot.
type Area struct {
	A, B    float64
	Samples []calculus.Sample
}

type svgFrame struct {
	vp            calculus.Viewport
	width, height int
}

func (f svgFrame) x(v float64) float64 {
	return (v - f.vp.XMin) / (f.vp.XMax - f.vp.XMin) * float64(f.width)
}

func (f svgFrame) y(v float64) float64 {
	return float64(f.height) - (v-f.vp.YMin)/(f.vp.YMax-f.vp.YMin)*float64(f.height)
}

// SVG plots the series over vp. Each series is drawn as a path that breaks
// wherever samples were dropped or leave the viewport. area may be nil.
func SVG(series []viz.Series, vp calculus.Viewport, width, height int, theme viz.Theme, area *Area) string {
	f := svgFrame{vp: vp, width: width, height: height}
	colors := []string{string(theme.Primary), string(theme.Secondary), string(theme.Accent)}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// axes
	if vp.Contains(0) {
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="0.5"/>
`, f.y(0), width, f.y(0), theme.Muted))
	}
	if vp.XMin <= 0 && vp.XMax >= 0 {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="%s" stroke-width="0.5"/>
`, f.x(0), f.x(0), height, theme.Muted))
	}

	if area != nil {
		if d := areaPath(f, area); d != "" {
			sb.WriteString(fmt.Sprintf(`<path fill="%s" fill-opacity="0.3" stroke="none" d="%s"/>
`, colors[0], d))
		}
	}

	for i, s := range series {
		d := curvePath(f, s.Samples)
		if d == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"><title>%s</title></path>
`, colors[i%len(colors)], d, escape(s.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func curvePath(f svgFrame, samples []calculus.Sample) string {
	gap := contiguous(samples)

	var sb strings.Builder
	pen := false
	for i, p := range samples {
		if !f.vp.Contains(p.Y) {
			pen = false
			continue
		}
		if pen && p.X-samples[i-1].X > gap {
			pen = false
		}
		cmd := "L"
		if !pen {
			cmd = "M"
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, f.x(p.X), f.y(p.Y)))
		pen = true
	}
	return sb.String()
}

func areaPath(f svgFrame, area *Area) string {
	lo, hi := math.Min(area.A, area.B), math.Max(area.A, area.B)
	base := f.y(math.Max(f.vp.YMin, math.Min(f.vp.YMax, 0)))

	var sb strings.Builder
	var lastX float64
	for _, p := range area.Samples {
		if p.X < lo || p.X > hi {
			continue
		}
		y := math.Max(f.vp.YMin, math.Min(f.vp.YMax, p.Y))
		if sb.Len() == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", f.x(p.X), base))
		}
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", f.x(p.X), f.y(y)))
		lastX = p.X
	}
	if sb.Len() == 0 {
		return ""
	}
	sb.WriteString(fmt.Sprintf(" L%.1f,%.1f Z", f.x(lastX), base))
	return sb.String()
}

func contiguous(samples []calculus.Sample) float64 {
	step := math.Inf(1)
	for i := 1; i < len(samples); i++ {
		if d := samples[i].X - samples[i-1].X; d > 0 && d < step {
			step = d
		}
	}
	return 1.5 * step
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return svgEscaper.Replace(s) }
