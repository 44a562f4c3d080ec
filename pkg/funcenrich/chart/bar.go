package chart

import (
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Bar draws a horizontal bar chart. Consecutive rows sharing a Category
// form one coloured block; rows without a category use the default
// colour. The value axis starts at 0 with 10% headroom.
func (r Renderer) Bar(name, title, xLabel string, rows []Row, size Size) Outcome {
	if len(rows) == 0 {
		return Skipped(name, "no rows")
	}
	return r.render(name, size, func() (*plot.Plot, error) {
		return barPlot(title, xLabel, rows, size)
	})
}

func barPlot(title, xLabel string, rows []Row, size Size) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.X.Min = 0
	p.X.Max = axisMax(rows, func(r Row) float64 { return r.Value })

	n := len(rows)
	width := size.Height / vg.Length(n+2) * 0.7
	legendSeen := make(map[string]bool)

	for start := 0; start < n; {
		end := start
		for end+1 < n && rows[end+1].Category == rows[start].Category {
			end++
		}

		// bars in a BarChart go upward from XMin, so feed the block bottom first
		values := make(plotter.Values, 0, end-start+1)
		for i := end; i >= start; i-- {
			if rows[i].Value < 0 {
				return nil, errors.New("negative bar value")
			}
			values = append(values, rows[i].Value)
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.Horizontal = true
		bars.XMin = float64(n - 1 - end)
		bars.LineStyle.Width = 0
		bars.Color = colorFor(rows[start].Category)
		p.Add(bars)

		if cat := rows[start].Category; cat != "" && !legendSeen[cat] {
			legendSeen[cat] = true
			p.Legend.Add(cat, bars)
		}
		start = end + 1
	}

	p.NominalY(axisLabels(rows)...)
	p.Legend.Top = true
	return p, nil
}

func colorFor(category string) color.Color {
	if c, ok := CategoryColors[category]; ok {
		return c
	}
	return defaultColor
}
