package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MinNetworkRows is the smallest node count worth laying out.
const MinNetworkRows = 3

// Edge links rows From and To with a weight in (0, 1].
type Edge struct {
	From, To int
	Weight   float64
}

// Network draws rows as nodes on a circle, first row at the top,
// connected by edges whose width follows Weight. Node size follows Size
// and colour follows Color as in Dot.
func (r Renderer) Network(name, title string, rows []Row, edges []Edge, size Size) Outcome {
	if len(rows) < MinNetworkRows {
		return Skipped(name, fmt.Sprintf("need at least %d rows, have %d", MinNetworkRows, len(rows)))
	}
	if len(edges) == 0 {
		return Skipped(name, "no edges above the similarity cutoff")
	}
	return r.render(name, size, func() (*plot.Plot, error) {
		return networkPlot(title, rows, edges)
	})
}

func networkPlot(title string, rows []Row, edges []Edge) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Min, p.X.Max = -1.6, 1.6
	p.Y.Min, p.Y.Max = -1.3, 1.3

	n := len(rows)
	nodes := make(plotter.XYs, n)
	for i := range rows {
		angle := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
		nodes[i].X = math.Cos(angle)
		nodes[i].Y = math.Sin(angle)
	}

	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, errors.New("edge references unknown node")
		}
		line, err := plotter.NewLine(plotter.XYs{nodes[e.From], nodes[e.To]})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(0.5 + 4*e.Weight)
		line.LineStyle.Color = color.Gray{Y: 170}
		p.Add(line)
	}

	scatter, err := plotter.NewScatter(nodes)
	if err != nil {
		return nil, err
	}
	styles, err := glyphStyles(rows)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		s := styles[i]
		s.Radius *= 1.5
		return s
	}
	p.Add(scatter)

	labelXYs := make(plotter.XYs, n)
	names := make([]string, n)
	for i, row := range rows {
		labelXYs[i].X = nodes[i].X * 1.12
		labelXYs[i].Y = nodes[i].Y * 1.12
		names[i] = row.Label
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: names})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(7)
		if labelXYs[i].X < 0 {
			labels.TextStyle[i].XAlign = draw.XRight
		}
	}
	p.Add(labels)
	return p, nil
}
