package config

import (
	"math"
	"sort"

	"github.com/san-kum/calclab/internal/calculus"
)

// Preset is a named example function with a viewport that frames it.
type Preset struct {
	Description string
	Expression  string
	Viewport    calculus.Viewport
	Point       float64
	Bounds      BoundsConfig
}

var Presets = map[string]*Preset{
	"parabola": {
		Description: "x squared",
		Expression:  "x^2",
		Viewport:    calculus.Viewport{XMin: -5, XMax: 5, YMin: -2, YMax: 25},
		Point:       1,
		Bounds:      BoundsConfig{A: 0, B: 2},
	},
	"sine": {
		Description: "sine wave over two periods",
		Expression:  "sin(x)",
		Viewport:    calculus.Viewport{XMin: -2 * math.Pi, XMax: 2 * math.Pi, YMin: -1.5, YMax: 1.5},
		Point:       0,
		Bounds:      BoundsConfig{A: 0, B: math.Pi},
	},
	"exponential": {
		Description: "natural exponential",
		Expression:  "exp(x)",
		Viewport:    calculus.Viewport{XMin: -4, XMax: 3, YMin: -1, YMax: 20},
		Point:       0,
		Bounds:      BoundsConfig{A: 0, B: 1},
	},
	"gaussian": {
		Description: "bell curve",
		Expression:  "exp(-x^2)",
		Viewport:    calculus.Viewport{XMin: -4, XMax: 4, YMin: -0.5, YMax: 1.5},
		Point:       0.5,
		Bounds:      BoundsConfig{A: -3, B: 3},
	},
	"reciprocal": {
		Description: "one over x, undefined at zero",
		Expression:  "1/x",
		Viewport:    calculus.Viewport{XMin: -5, XMax: 5, YMin: -10, YMax: 10},
		Point:       1,
		Bounds:      BoundsConfig{A: 1, B: 3},
	},
	"cubic": {
		Description: "cubic with two turning points",
		Expression:  "x^3 - 3*x",
		Viewport:    calculus.Viewport{XMin: -3, XMax: 3, YMin: -10, YMax: 10},
		Point:       1,
		Bounds:      BoundsConfig{A: -2, B: 2},
	},
	"sqrt": {
		Description: "square root, undefined for x < 0",
		Expression:  "sqrt(x)",
		Viewport:    calculus.Viewport{XMin: -2, XMax: 10, YMin: -1, YMax: 4},
		Point:       4,
		Bounds:      BoundsConfig{A: 0, B: 4},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the preset's function, viewport, point and bounds into c.
func (c *Config) ApplyPreset(p *Preset) {
	c.Expression = p.Expression
	c.Viewport = p.Viewport
	c.Point = p.Point
	c.Bounds = p.Bounds
}
