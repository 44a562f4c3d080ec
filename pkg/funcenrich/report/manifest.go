package report

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/funcenrich/pkg/funcenrich/chart"
)

// ManifestFile is written next to the result tables.
const ManifestFile = "run_manifest.yaml"

var entropy = ulid.Monotonic(rand.Reader, 0)

// Manifest lists what one pipeline run produced.
type Manifest struct {
	RunID     string       `yaml:"run_id"`
	Pipeline  string       `yaml:"pipeline"`
	StartedAt time.Time    `yaml:"started_at"`
	Inputs    []string     `yaml:"inputs"`
	Tables    []string     `yaml:"tables"`
	Charts    []ChartEntry `yaml:"charts"`
}

// ChartEntry is the manifest form of a chart.Outcome.
type ChartEntry struct {
	Name    string   `yaml:"name"`
	Files   []string `yaml:"files,omitempty"`
	Skipped string   `yaml:"skipped,omitempty"`
}

// NewManifest starts a manifest with a fresh ULID run ID.
func NewManifest(pipeline string, started time.Time) *Manifest {
	return &Manifest{
		RunID:     ulid.MustNew(ulid.Timestamp(started), entropy).String(),
		Pipeline:  pipeline,
		StartedAt: started.UTC(),
	}
}

// AddChart records a chart outcome.
func (m *Manifest) AddChart(o chart.Outcome) {
	m.Charts = append(m.Charts, ChartEntry{Name: o.Chart, Files: o.Files, Skipped: o.Reason})
}

// Produced reports whether the run wrote any table or chart.
func (m *Manifest) Produced() bool {
	if len(m.Tables) > 0 {
		return true
	}
	for _, c := range m.Charts {
		if len(c.Files) > 0 {
			return true
		}
	}
	return false
}

// Write stores the manifest as YAML in dir.
func (m *Manifest) Write(dir string) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
