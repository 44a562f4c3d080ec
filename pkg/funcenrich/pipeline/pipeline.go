// Package pipeline runs the two end-to-end analyses: pathway enrichment
// and annotation frequency. Each run is a single synchronous pass.
package pipeline

import (
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/cognicore/funcenrich/pkg/funcenrich/chart"
	"github.com/cognicore/funcenrich/pkg/funcenrich/config"
	"github.com/cognicore/funcenrich/pkg/funcenrich/report"
)

// Result describes what a run wrote.
type Result struct {
	Manifest     *report.Manifest
	ManifestPath string // empty when nothing was written
	Enriched     bool   // enrichment runs only
}

type runner struct {
	cfg      config.Config
	out      io.Writer
	renderer chart.Renderer
	manifest *report.Manifest
}

func newRunner(name string, cfg config.Config, out io.Writer, now time.Time) *runner {
	if out == nil {
		out = io.Discard
	}
	return &runner{
		cfg:      cfg,
		out:      out,
		renderer: chart.Renderer{Dir: cfg.Output.Dir, DPI: cfg.Output.DPI},
		manifest: report.NewManifest(name, now),
	}
}

func (r *runner) outputPath(name string) string {
	return filepath.Join(r.cfg.Output.Dir, name)
}

// chart records an outcome; a skipped chart never stops the run.
func (r *runner) chart(o chart.Outcome) {
	if !o.OK() {
		log.Printf("chart %s skipped: %s", o.Chart, o.Reason)
	}
	r.manifest.AddChart(o)
}

func (r *runner) finish() (Result, error) {
	res := Result{Manifest: r.manifest}
	if !r.manifest.Produced() {
		return res, nil
	}
	path, err := r.manifest.Write(r.cfg.Output.Dir)
	if err != nil {
		return res, err
	}
	res.ManifestPath = path
	return res, nil
}
