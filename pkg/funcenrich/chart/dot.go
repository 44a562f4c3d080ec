package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	minRadius = 3
	maxRadius = 10
)

// Dot draws one dot per row at (Value, row); dot radius follows Size
// and colour follows Color on a blue-red scale (low values red).
func (r Renderer) Dot(name, title, xLabel string, rows []Row, size Size) Outcome {
	if len(rows) == 0 {
		return Skipped(name, "no rows")
	}
	return r.render(name, size, func() (*plot.Plot, error) {
		return dotPlot(title, xLabel, rows)
	})
}

func dotPlot(title, xLabel string, rows []Row) (*plot.Plot, error) {
	lo, hi := colorRange(rows)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (colour: %.2g red to %.2g blue)", title, lo, hi)
	p.X.Label.Text = xLabel
	p.X.Min = 0
	p.X.Max = axisMax(rows, func(r Row) float64 { return r.Value })
	p.Y.Min = -1
	p.Y.Max = float64(len(rows))

	ys := positions(len(rows))
	xys := make(plotter.XYs, len(rows))
	for i, row := range rows {
		xys[i].X = row.Value
		xys[i].Y = ys[i]
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	styles, err := glyphStyles(rows)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle { return styles[i] }
	p.Add(scatter, plotter.NewGrid())

	p.NominalY(axisLabels(rows)...)
	return p, nil
}

// glyphStyles sizes glyphs by Size and colours them by Color.
func glyphStyles(rows []Row) ([]draw.GlyphStyle, error) {
	cm := colorMap(rows)
	sizeLo, sizeHi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		sizeLo = math.Min(sizeLo, row.Size)
		sizeHi = math.Max(sizeHi, row.Size)
	}

	out := make([]draw.GlyphStyle, len(rows))
	for i, row := range rows {
		radius := float64(minRadius+maxRadius) / 2
		if sizeHi > sizeLo {
			radius = minRadius + (row.Size-sizeLo)/(sizeHi-sizeLo)*(maxRadius-minRadius)
		}
		c, err := cm.At(row.Color)
		if err != nil {
			return nil, fmt.Errorf("colour for %q: %w", row.Label, err)
		}
		out[i] = draw.GlyphStyle{
			Color:  c,
			Radius: vg.Points(radius),
			Shape:  draw.CircleGlyph{},
		}
	}
	return out, nil
}

func colorRange(rows []Row) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		lo = math.Min(lo, row.Color)
		hi = math.Max(hi, row.Color)
	}
	return lo, hi
}

// colorMap maps the smallest Color to red and the largest to blue.
func colorMap(rows []Row) palette.ColorMap {
	lo, hi := colorRange(rows)
	if hi <= lo {
		hi = lo + 1
	}
	cm := moreland.SmoothBlueRed()
	// invert so that significant (small) values are red
	cm.SetMin(-hi)
	cm.SetMax(-lo)
	return invertedMap{cm}
}

type invertedMap struct {
	palette.ColorMap
}

func (m invertedMap) At(v float64) (color.Color, error) {
	return m.ColorMap.At(-v)
}
