// Package chart renders display-ready rows with gonum/plot. Rows are
// drawn in the order given, first row at the top; nothing here sorts.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Row is one plotted item.
type Row struct {
	Label    string  // already truncated
	Value    float64 // value axis metric
	Category string  // optional, selects the bar colour
	Size     float64 // dot/node size metric (e.g. Count)
	Color    float64 // dot/node colour metric (e.g. p.adjust)
}

// Outcome records whether a chart was written. Exactly one of Files or
// Reason is set.
type Outcome struct {
	Chart  string
	Files  []string
	Reason string
}

// Produced reports a written chart.
func Produced(chart string, files ...string) Outcome {
	return Outcome{Chart: chart, Files: files}
}

// Skipped reports a chart that was not written.
func Skipped(chart, reason string) Outcome {
	return Outcome{Chart: chart, Reason: reason}
}

// OK reports whether the chart files exist.
func (o Outcome) OK() bool { return o.Reason == "" }

func (o Outcome) String() string {
	if o.OK() {
		return fmt.Sprintf("%s: wrote %v", o.Chart, o.Files)
	}
	return fmt.Sprintf("%s: skipped (%s)", o.Chart, o.Reason)
}

// Size is the physical size of a chart.
type Size struct {
	Width, Height vg.Length
}

// Fixed chart sizes.
var (
	BarSize      = Size{8 * vg.Inch, 6 * vg.Inch}
	DotSize      = Size{8 * vg.Inch, 7 * vg.Inch}
	NetworkSize  = Size{9 * vg.Inch, 9 * vg.Inch}
	GroupedSize  = Size{10 * vg.Inch, 8 * vg.Inch}
	SummarySize  = Size{6 * vg.Inch, 5 * vg.Inch}
	DefaultDPI   = 300.0
	headroom     = 1.1
	defaultColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// CategoryColors holds the fixed colour per ontology code.
var CategoryColors = map[string]color.Color{
	"BP": color.RGBA{R: 102, G: 194, B: 165, A: 255},
	"CC": color.RGBA{R: 252, G: 141, B: 98, A: 255},
	"MF": color.RGBA{R: 141, G: 160, B: 203, A: 255},
}

// Renderer writes charts into Dir as a PDF and a PNG at DPI.
type Renderer struct {
	Dir string
	DPI float64
}

// render builds and saves one chart. Build errors and panics raised
// inside the plotting library become a Skipped outcome.
func (r Renderer) render(name string, size Size, build func() (*plot.Plot, error)) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Skipped(name, fmt.Sprintf("render panic: %v", rec))
		}
	}()

	p, err := build()
	if err != nil {
		return Skipped(name, err.Error())
	}
	files, err := r.save(p, name, size)
	if err != nil {
		return Skipped(name, err.Error())
	}
	return Produced(name, files...)
}

func (r Renderer) save(p *plot.Plot, name string, size Size) ([]string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, err
	}

	pdfPath := filepath.Join(r.Dir, name+".pdf")
	if err := p.Save(size.Width, size.Height, pdfPath); err != nil {
		os.Remove(pdfPath)
		return nil, fmt.Errorf("save pdf: %w", err)
	}

	pngPath := filepath.Join(r.Dir, name+".png")
	if err := r.savePNG(p, pngPath, size); err != nil {
		// a chart is written as both files or not at all
		os.Remove(pdfPath)
		return nil, fmt.Errorf("save png: %w", err)
	}
	return []string{pdfPath, pngPath}, nil
}

func (r Renderer) savePNG(p *plot.Plot, path string, size Size) error {
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(size.Width, size.Height), vgimg.UseDPI(int(dpi)))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// axisMax returns the upper bound with 10% headroom above the largest value.
func axisMax(rows []Row, value func(Row) float64) float64 {
	max := 0.0
	for _, r := range rows {
		if v := value(r); v > max {
			max = v
		}
	}
	if max == 0 {
		return 1
	}
	return max * headroom
}

// positions maps display order to the categorical axis: row 0 goes to
// the highest position so it is drawn at the top.
func positions(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(n - 1 - i)
	}
	return out
}

// axisLabels returns labels indexed by axis position.
func axisLabels(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r.Label
	}
	return out
}
