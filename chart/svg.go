package chart

import (
	"fmt"
	"image/color"
	"io"

	"github.com/CK6170/sensorcal-go/modern"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

type Swatch struct {
	Hex   string
	Color color.NRGBA
}

// Palette is the series color cycle shared by the terminal and SVG views.
var Palette = []Swatch{
	{"#1f77b4", color.NRGBA{0x1f, 0x77, 0xb4, 0xff}},
	{"#ff7f0e", color.NRGBA{0xff, 0x7f, 0x0e, 0xff}},
	{"#2ca02c", color.NRGBA{0x2c, 0xa0, 0x2c, 0xff}},
	{"#d62728", color.NRGBA{0xd6, 0x27, 0x28, 0xff}},
	{"#9467bd", color.NRGBA{0x94, 0x67, 0xbd, 0xff}},
	{"#8c564b", color.NRGBA{0x8c, 0x56, 0x4b, 0xff}},
}

const markerAlpha = 0x80

var (
	PanelWidth  = 12 * vg.Centimeter
	PanelHeight = 9 * vg.Centimeter
)

func newPlot(p modern.Panel) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())

	for i, s := range p.Series {
		xys := make(plotter.XYs, 0, len(s.X))
		for j := range s.X {
			if j < len(s.Y) && finite(s.X[j]) && finite(s.Y[j]) {
				xys = append(xys, plotter.XY{X: s.X[j], Y: s.Y[j]})
			}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("panel %d %s: %w", p.Index, s.Label, err)
		}
		c := Palette[i%len(Palette)].Color
		c.A = markerAlpha
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		pl.Add(sc)
		pl.Legend.Add(s.Label, sc)
	}
	return pl, nil
}

// WriteSVG renders one panel as a standalone SVG document.
func WriteSVG(w io.Writer, p modern.Panel) error {
	pl, err := newPlot(p)
	if err != nil {
		return err
	}
	wt, err := pl.WriterTo(PanelWidth, PanelHeight, "svg")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// WriteGrid renders the panels as one PanelRows x PanelCols SVG figure.
func WriteGrid(w io.Writer, panels []modern.Panel) error {
	plots := make([][]*plot.Plot, modern.PanelRows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, modern.PanelCols)
		for c := range plots[r] {
			i := r*modern.PanelCols + c
			if i >= len(panels) {
				continue
			}
			pl, err := newPlot(panels[i])
			if err != nil {
				return err
			}
			plots[r][c] = pl
		}
	}

	img := vgsvg.New(PanelWidth*modern.PanelCols, PanelHeight*modern.PanelRows)
	dc := draw.New(img)
	t := draw.Tiles{
		Rows:      modern.PanelRows,
		Cols:      modern.PanelCols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, t, dc)
	for r := range plots {
		for c, pl := range plots[r] {
			if pl != nil {
				pl.Draw(canvases[r][c])
			}
		}
	}
	_, err := img.WriteTo(w)
	return err
}
