package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/CK6170/sensorcal-go/modern"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	labelWidth = 8
	minPlotW   = 4
	minPlotH   = 3
	// title, x axis, x labels, legend
	chromeRows = 4
)

var glyphs = []rune{'•', '+', 'x', 'o', '*', '#'}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212"))
	normalBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

func seriesStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(Palette[i%len(Palette)].Hex))
}

type bounds struct {
	xmin, xmax, ymin, ymax float64
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// dataBounds spans every finite point of the panel. Empty or degenerate
// ranges are widened so that scaling never divides by zero.
func dataBounds(p modern.Panel) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, s := range p.Series {
		for i := range s.X {
			if i >= len(s.Y) || !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			b.xmin = math.Min(b.xmin, s.X[i])
			b.xmax = math.Max(b.xmax, s.X[i])
			b.ymin = math.Min(b.ymin, s.Y[i])
			b.ymax = math.Max(b.ymax, s.Y[i])
		}
	}
	if math.IsInf(b.xmin, 1) {
		return bounds{0, 1, 0, 1}
	}
	if b.xmax == b.xmin {
		b.xmin, b.xmax = b.xmin-0.5, b.xmax+0.5
	}
	if b.ymax == b.ymin {
		b.ymin, b.ymax = b.ymin-0.5, b.ymax+0.5
	}
	return b
}

// canvas is a character raster. owner holds the series index drawn in a
// cell, -1 for empty and -2 for grid.
type canvas struct {
	w, h  int
	b     bounds
	cells [][]rune
	owner [][]int
}

func newCanvas(w, h int, b bounds) *canvas {
	c := &canvas{w: w, h: h, b: b, cells: make([][]rune, h), owner: make([][]int, h)}
	for r := 0; r < h; r++ {
		c.cells[r] = []rune(strings.Repeat(" ", w))
		c.owner[r] = make([]int, w)
		for i := range c.owner[r] {
			c.owner[r][i] = -1
		}
	}
	return c
}

func (c *canvas) cell(x, y float64) (row, col int) {
	col = int(math.Round((x - c.b.xmin) / (c.b.xmax - c.b.xmin) * float64(c.w-1)))
	row = c.h - 1 - int(math.Round((y-c.b.ymin)/(c.b.ymax-c.b.ymin)*float64(c.h-1)))
	return row, col
}

func (c *canvas) grid() {
	for q := 1; q < 4; q++ {
		col := q * (c.w - 1) / 4
		row := q * (c.h - 1) / 4
		for r := 0; r < c.h; r++ {
			c.cells[r][col], c.owner[r][col] = '┊', -2
		}
		for x := 0; x < c.w; x++ {
			c.cells[row][x], c.owner[row][x] = '┈', -2
		}
	}
}

func (c *canvas) plot(series int, s modern.PanelSeries) {
	g := glyphs[series%len(glyphs)]
	for i := range s.X {
		if i >= len(s.Y) || !finite(s.X[i]) || !finite(s.Y[i]) {
			continue
		}
		r, col := c.cell(s.X[i], s.Y[i])
		if r < 0 || r >= c.h || col < 0 || col >= c.w {
			continue
		}
		c.cells[r][col], c.owner[r][col] = g, series
	}
}

func (c *canvas) row(r int) string {
	var b strings.Builder
	for col, ch := range c.cells[r] {
		switch o := c.owner[r][col]; {
		case o >= 0:
			b.WriteString(seriesStyle(o).Render(string(ch)))
		case o == -2:
			b.WriteString(axisStyle.Render(string(ch)))
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// tick formats v in at most labelWidth characters, dropping significant
// digits before it would cut an exponent.
func tick(v float64) string {
	label := fmt.Sprintf("%.4g", v)
	for prec := 3; len(label) > labelWidth && prec > 0; prec-- {
		label = fmt.Sprintf("%.*g", prec, v)
	}
	return label
}

// fit pads or cuts s to exactly w cells, keeping escape sequences intact.
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, "")
	return s + strings.Repeat(" ", w-ansi.StringWidth(s))
}

// Render draws p as a scatter chart of exactly width x height cells.
func Render(p modern.Panel, width, height int, grid bool) string {
	pw := max(width-labelWidth-1, minPlotW)
	ph := max(height-chromeRows, minPlotH)
	width = pw + labelWidth + 1

	b := dataBounds(p)
	c := newCanvas(pw, ph, b)
	if grid {
		c.grid()
	}
	for i, s := range p.Series {
		c.plot(i, s)
	}

	lines := make([]string, 0, ph+chromeRows)
	lines = append(lines, titleStyle.Render(fit(p.Title, width)))
	for r := 0; r < ph; r++ {
		label := ""
		switch r {
		case 0:
			label = tick(b.ymax)
		case ph / 2:
			label = tick((b.ymax + b.ymin) / 2)
		case ph - 1:
			label = tick(b.ymin)
		}
		lines = append(lines, axisStyle.Render(fmt.Sprintf("%*s│", labelWidth, label))+c.row(r))
	}
	lines = append(lines, axisStyle.Render(strings.Repeat(" ", labelWidth)+"└"+strings.Repeat("─", pw)))

	lo, hi := tick(b.xmin), tick(b.xmax)
	gap := max(pw-len(lo)-len(hi), 1)
	lines = append(lines, axisStyle.Render(fit(strings.Repeat(" ", labelWidth+1)+lo+strings.Repeat(" ", gap)+hi, width)))

	var legend []string
	for i, s := range p.Series {
		legend = append(legend, seriesStyle(i).Render(string(glyphs[i%len(glyphs)]))+" "+s.Label)
	}
	lines = append(lines, fit(strings.Join(legend, "  "), width))
	return strings.Join(lines, "\n")
}

// RenderGrid lays panels out PanelRows x PanelCols, each in a rounded border.
// The focused panel (0-based) gets a highlighted border; -1 focuses none.
func RenderGrid(panels []modern.Panel, width, height, focus int, grid bool) string {
	cw := width / modern.PanelCols
	ch := height / modern.PanelRows
	rows := make([]string, 0, modern.PanelRows)
	for r := 0; r < modern.PanelRows; r++ {
		cells := make([]string, 0, modern.PanelCols)
		for c := 0; c < modern.PanelCols; c++ {
			i := r*modern.PanelCols + c
			var p modern.Panel
			if i < len(panels) {
				p = panels[i]
			}
			style := normalBorder
			if i == focus {
				style = focusBorder
			}
			cells = append(cells, style.Render(Render(p, cw-2, ch-2, grid)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
