package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/CK6170/sensorcal-go/modern"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePanel() modern.Panel {
	return modern.Panel{
		Index: 1,
		Title: "1. Original Readings",
		Series: []modern.PanelSeries{
			{Label: "s0", X: []float64{0, 10}, Y: []float64{1, 211}},
			{Label: "s1", X: []float64{5, math.NaN()}, Y: []float64{56, 3}},
		},
	}
}

func TestDataBounds(t *testing.T) {
	b := dataBounds(samplePanel())
	assert.Equal(t, bounds{0, 10, 1, 211}, b)

	assert.Equal(t, bounds{0, 1, 0, 1}, dataBounds(modern.Panel{}))

	flat := modern.Panel{Series: []modern.PanelSeries{{X: []float64{2, 2}, Y: []float64{3, 3}}}}
	assert.Equal(t, bounds{1.5, 2.5, 2.5, 3.5}, dataBounds(flat))
}

func TestCanvasPlacesCorners(t *testing.T) {
	p := samplePanel()
	c := newCanvas(21, 11, dataBounds(p))
	c.plot(0, p.Series[0])
	c.plot(1, p.Series[1])

	assert.Equal(t, '•', c.cells[10][0], "min corner is bottom left")
	assert.Equal(t, '•', c.cells[0][20], "max corner is top right")
	assert.Equal(t, 0, c.owner[0][20])
	// (5, 56) lands mid width, about a quarter of the way up
	assert.Equal(t, '+', c.cells[7][10])
	assert.Equal(t, 1, c.owner[7][10])
}

func TestCanvasGrid(t *testing.T) {
	c := newCanvas(9, 5, bounds{0, 1, 0, 1})
	c.grid()
	assert.Equal(t, '┊', c.cells[0][2])
	assert.Equal(t, '┈', c.cells[1][0])
	assert.Equal(t, -2, c.owner[0][2])
}

func TestRenderSize(t *testing.T) {
	for _, grid := range []bool{false, true} {
		out := Render(samplePanel(), 60, 16, grid)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 16)
		for i, l := range lines {
			assert.Equal(t, 60, ansi.StringWidth(l), "line %d", i)
		}
		assert.Contains(t, lines[0], "1. Original Readings")
		assert.Contains(t, out, "211")
		assert.Contains(t, lines[15], "s0")
		assert.Contains(t, lines[15], "s1")
	}
}

func TestTick(t *testing.T) {
	tt := []struct {
		v   float64
		exp string
	}{
		{v: 211, exp: "211"},
		{v: 0.5, exp: "0.5"},
		{v: 1.23456, exp: "1.235"},
		{v: -123456, exp: "-1.2e+05"},
		{v: 1.7e9, exp: "1.7e+09"},
		{v: -1e-100, exp: "-1e-100"},
	}
	for _, tc := range tt {
		got := tick(tc.v)
		assert.Equal(t, tc.exp, got)
		assert.LessOrEqual(t, len(got), labelWidth)
	}
}

func TestRenderKeepsExponentLabels(t *testing.T) {
	p := modern.Panel{Title: "wide", Series: []modern.PanelSeries{
		{Label: "s0", X: []float64{0, 1}, Y: []float64{-123456, -100000}},
	}}
	out := ansi.Strip(Render(p, 40, 12, false))
	assert.Contains(t, out, "-1.2e+05│")
	assert.Contains(t, out, "-1e+05│")
	assert.NotContains(t, out, "e+│")
	for i, l := range strings.Split(out, "\n") {
		assert.Equal(t, 40, ansi.StringWidth(l), "line %d", i)
	}
}

func TestRenderEmptyPanel(t *testing.T) {
	out := Render(modern.Panel{Title: "empty"}, 30, 10, true)
	assert.Len(t, strings.Split(out, "\n"), 10)
}

func TestRenderGrid(t *testing.T) {
	panels := modern.BuildPanels(nil)
	out := RenderGrid(panels, 180, 40, 2, true)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 40)
	for _, p := range panels {
		assert.Contains(t, out, p.Title)
	}
	assert.Equal(t, 180, ansi.StringWidth(lines[0]))
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, samplePanel()))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Original Readings")
}

func TestWriteGrid(t *testing.T) {
	panels := modern.BuildPanels(nil)
	panels[0] = samplePanel()
	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, panels))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Residual")
}
