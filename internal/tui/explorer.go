package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/calclab/internal/calculus"
	"github.com/san-kum/calclab/internal/config"
	"github.com/san-kum/calclab/internal/viz"
)

// debounce is how long expression edits settle before the chart is redrawn.
const debounce = 150 * time.Millisecond

// maxTUIOrder matches the order slider of the explorer.
const maxTUIOrder = 5

type tab int

const (
	tabPlot tab = iota
	tabDerivative
	tabHigher
	tabIntegral
)

var tabNames = []string{"Plot", "Derivative", "Higher Derivative", "Integral"}

var tabParams = map[tab][]string{
	tabPlot:       {"xmin", "xmax", "ymin", "ymax"},
	tabDerivative: {"x0", "h"},
	tabHigher:     {"order", "x0", "h"},
	tabIntegral:   {"a", "b", "n"},
}

type model struct {
	cfg *config.Config

	tab        tab
	expression string
	presetIdx  int

	editingExpr  bool
	exprBuf      string
	exprOrig     string
	seq          int
	params       map[string]float64
	paramCursor  int
	editingParam bool
	editBuf      string

	theme  viz.Theme
	styles viz.Styles

	// results of the last recompute
	series []viz.Series
	curve  []calculus.Sample
	value  float64
	area   float64
	err    error

	width  int
	height int
}

type debounceMsg struct{ seq int }

func newExplorer(cfg *config.Config) model {
	theme := viz.GetTheme(cfg.Theme)
	m := model{
		cfg:        cfg,
		expression: cfg.Expression,
		theme:      theme,
		styles:     viz.NewStyles(theme),
		width:      100,
		height:     32,
	}
	m.resetParams()
	m.recompute()
	return m
}

func (m *model) resetParams() {
	vp := m.cfg.Viewport
	m.params = map[string]float64{
		"xmin":  vp.XMin,
		"xmax":  vp.XMax,
		"ymin":  vp.YMin,
		"ymax":  vp.YMax,
		"x0":    m.cfg.Point,
		"h":     m.cfg.Step,
		"order": float64(min(max(m.cfg.Order, 1), maxTUIOrder)),
		"a":     m.cfg.Bounds.A,
		"b":     m.cfg.Bounds.B,
		"n":     float64(m.cfg.RiemannN),
	}
	if m.tab == tabHigher {
		m.params["h"] = m.cfg.HigherStep
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case debounceMsg:
		if msg.seq == m.seq && m.editingExpr {
			m.expression = m.exprBuf
			m.recompute()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.editingExpr:
		return m.exprKey(msg)
	case m.editingParam:
		return m.paramEditKey(msg)
	}

	names := tabParams[m.tab]
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.switchTab((m.tab + 1) % tab(len(tabNames)))
	case "shift+tab":
		m.switchTab((m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames)))
	case "1", "2", "3", "4":
		m.switchTab(tab(msg.String()[0] - '1'))
	case "e", "/":
		m.editingExpr = true
		m.exprBuf = m.expression
		m.exprOrig = m.expression
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(names)-1 {
			m.paramCursor++
		}
	case "left", "h":
		m.adjust(names[m.paramCursor], -1)
		m.recompute()
	case "right", "l":
		m.adjust(names[m.paramCursor], 1)
		m.recompute()
	case "enter", " ":
		m.editingParam = true
		m.editBuf = strconv.FormatFloat(m.params[names[m.paramCursor]], 'g', -1, 64)
	case "p":
		presets := config.ListPresets()
		m.presetIdx = (m.presetIdx + 1) % len(presets)
		m.cfg.ApplyPreset(config.GetPreset(presets[m.presetIdx]))
		m.expression = m.cfg.Expression
		m.resetParams()
		m.recompute()
	case "r":
		m.resetParams()
		m.recompute()
	case "t":
		m.theme = viz.NextTheme(m.theme)
		m.styles = viz.NewStyles(m.theme)
	}
	return m, nil
}

func (m model) exprKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editingExpr = false
		m.expression = m.exprBuf
		m.recompute()
		return m, nil
	case tea.KeyEsc:
		m.editingExpr = false
		m.exprBuf = ""
		m.expression = m.exprOrig
		m.recompute()
		return m, nil
	case tea.KeyBackspace:
		if len(m.exprBuf) > 0 {
			m.exprBuf = m.exprBuf[:len(m.exprBuf)-1]
		}
	case tea.KeySpace:
		m.exprBuf += " "
	case tea.KeyRunes:
		m.exprBuf += string(msg.Runes)
	default:
		return m, nil
	}

	m.seq++
	seq := m.seq
	return m, tea.Tick(debounce, func(time.Time) tea.Msg { return debounceMsg{seq: seq} })
}

func (m model) paramEditKey(msg tea.KeyMsg) (model, tea.Cmd) {
	name := tabParams[m.tab][m.paramCursor]
	switch msg.String() {
	case "enter":
		if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
			m.params[name] = v
			m.clamp(name)
			m.recompute()
		}
		m.editingParam = false
		m.editBuf = ""
	case "esc":
		m.editingParam = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if len(msg.String()) == 1 {
			c := msg.String()[0]
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += string(c)
			}
		}
	}
	return m, nil
}

func (m *model) switchTab(t tab) {
	if t == m.tab || int(t) >= len(tabNames) {
		return
	}
	// the higher-derivative tab keeps its own, coarser step
	if t == tabHigher {
		m.params["h"] = m.cfg.HigherStep
	} else if m.tab == tabHigher {
		m.params["h"] = m.cfg.Step
	}
	m.tab = t
	m.paramCursor = 0
	m.recompute()
}

func (m *model) adjust(name string, dir float64) {
	switch name {
	case "xmin", "xmax", "ymin", "ymax":
		m.params[name] += dir
	case "x0", "a", "b":
		m.params[name] = math.Round((m.params[name]+dir*0.1)*1e6) / 1e6
	case "h":
		m.params[name] *= math.Pow(10, dir)
	case "order":
		m.params[name] += dir
	case "n":
		m.params[name] += dir * 10
	}
	m.clamp(name)
}

func (m *model) clamp(name string) {
	switch name {
	case "order":
		m.params[name] = math.Max(1, math.Min(maxTUIOrder, math.Round(m.params[name])))
	case "n":
		m.params[name] = math.Max(1, math.Min(calculus.MaxRiemannN, math.Round(m.params[name])))
	}
}

func (m model) viewport() calculus.Viewport {
	return calculus.Viewport{
		XMin: m.params["xmin"],
		XMax: m.params["xmax"],
		YMin: m.params["ymin"],
		YMax: m.params["ymax"],
	}
}

func (m *model) recompute() {
	src := m.expression
	d := m.viewport().Domain(m.cfg.Samples)

	m.curve = calculus.SamplePoints(src, d)
	m.series = []viz.Series{{Name: "f(x)", Samples: m.curve}}
	m.value, m.area = math.NaN(), math.NaN()
	m.err = calculus.CheckCurve(src, d, m.curve)

	switch m.tab {
	case tabDerivative:
		t, line := calculus.TangentLine(src, m.params["x0"], m.params["h"], d)
		m.value = t.Slope
		m.series = append(m.series, viz.Series{Name: "tangent", Samples: line})
		if m.err == nil {
			m.err = calculus.Check(src, t.Slope)
		}
	case tabHigher:
		order := int(m.params["order"])
		curve := calculus.HigherDerivativeCurve(src, d, m.params["h"], order)
		m.value = calculus.HigherDerivative(src, m.params["x0"], m.params["h"], order)
		m.series = append(m.series, viz.Series{Name: derivativeLabel(order), Samples: curve})
		if m.err == nil {
			m.err = calculus.CheckCurve(src, d, curve)
		}
	case tabIntegral:
		n := int(m.params["n"])
		var err, areaErr error
		m.value, err = calculus.IntegralContext(context.Background(), src, m.params["a"], m.params["b"], n)
		m.area, areaErr = calculus.AreaContext(context.Background(), src, m.params["a"], m.params["b"], n)
		if m.err == nil {
			m.err = err
		}
		if m.err == nil {
			m.err = areaErr
		}
	}
}

func derivativeLabel(order int) string {
	return "f" + strings.Repeat("'", order) + "(x)"
}

func (m model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("calclab") + "  " + s.Subtle.Render("function explorer") + "\n\n")

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			tabs[i] = s.ActiveTab.Render(name)
		} else {
			tabs[i] = s.Tab.Render(name)
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	exprText := m.expression
	if m.editingExpr {
		exprText = m.exprBuf + "▋"
	}
	b.WriteString(s.Label.Render("  f(x) = ") + s.Input.Render(exprText) + "\n\n")

	for i, name := range tabParams[m.tab] {
		val := strconv.FormatFloat(m.params[name], 'g', 6, 64)
		if m.editingParam && i == m.paramCursor {
			val = m.editBuf + "▋"
		}
		if i == m.paramCursor {
			b.WriteString("  " + s.Title.Render("▸ ") + s.Label.Render(fmt.Sprintf("%-6s", name)) + s.Value.Render(val) + "\n")
		} else {
			b.WriteString("    " + s.Subtle.Render(fmt.Sprintf("%-6s", name)+val) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(m.chart() + "\n\n")
	b.WriteString(m.results() + "\n")
	b.WriteString(s.Separator(min(m.width-4, 72)) + "\n")
	b.WriteString(s.KeyHint.Render("  tab/1-4 view  e edit f(x)  ↑↓ select  ←→ adjust  enter set  p preset  t theme  r reset  q quit") + "\n")

	return b.String()
}

func (m model) chart() string {
	vp := m.viewport()
	if !(vp.XMin < vp.XMax) || !(vp.YMin < vp.YMax) {
		return m.styles.Error.Render("  empty viewport")
	}
	opts := viz.Options{
		Width:   max(m.width-16, 20),
		Height:  max(m.height-22, 6),
		Caption: m.expression,
		Theme:   m.theme,
	}
	if m.tab == tabIntegral {
		return viz.AreaChart(m.curve, m.params["a"], m.params["b"], vp, opts)
	}
	return viz.Render(m.series, vp, opts)
}

func (m model) results() string {
	s := m.styles
	if m.err != nil {
		return s.Error.Render("  ✗ " + m.err.Error())
	}

	switch m.tab {
	case tabDerivative:
		return s.Label.Render(fmt.Sprintf("  f'(%g) = ", m.params["x0"])) + s.Value.Render(format(m.value))
	case tabHigher:
		order := int(m.params["order"])
		return s.Label.Render(fmt.Sprintf("  %s at x = %g: ", derivativeLabel(order), m.params["x0"])) + s.Value.Render(format(m.value))
	case tabIntegral:
		return s.Label.Render(fmt.Sprintf("  ∫[%g, %g] f dx = ", m.params["a"], m.params["b"])) + s.Value.Render(format(m.value)) +
			s.Label.Render("   area = ") + s.Value.Render(format(m.area))
	default:
		return s.Label.Render(fmt.Sprintf("  %d points", len(m.curve)))
	}
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func Run(cfg *config.Config) error {
	p := tea.NewProgram(newExplorer(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
