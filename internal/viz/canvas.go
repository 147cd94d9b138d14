package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/calclab/internal/calculus"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. In sub-pixels it is Width*2 wide and
// Height*4 tall.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set sets the sub-pixel at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// AreaChart draws the curve over vp and shades the region between the curve
// and the x-axis for x between a and b.
func AreaChart(curve []calculus.Sample, a, b float64, vp calculus.Viewport, opts Options) string {
	width, height := opts.size()
	c := NewCanvas(width, height)
	pw, ph := width*2, height*4

	py := func(y float64) int {
		y = math.Max(vp.YMin, math.Min(vp.YMax, y))
		return int(math.Round((vp.YMax - y) / (vp.YMax - vp.YMin) * float64(ph-1)))
	}
	px := func(col int) float64 {
		return vp.XMin + float64(col)*(vp.XMax-vp.XMin)/float64(pw-1)
	}

	axis := py(0)
	if vp.Contains(0) {
		for x := 0; x < pw; x += 2 {
			c.Set(x, axis)
		}
	}

	lo, hi := math.Min(a, b), math.Max(a, b)
	ys := Resample(curve, vp, pw)
	for x, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		if xv := px(x); xv >= lo && xv <= hi {
			c.DrawLine(x, axis, x, py(y))
		}
		if x > 0 && !math.IsNaN(ys[x-1]) && vp.Contains(y) && vp.Contains(ys[x-1]) {
			c.DrawLine(x-1, py(ys[x-1]), x, py(y))
		} else if vp.Contains(y) {
			c.Set(x, py(y))
		}
	}

	style := lipgloss.NewStyle().Foreground(opts.Theme.Primary)
	out := style.Render(c.String())
	if opts.Caption != "" {
		out += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, opts.Caption)
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
