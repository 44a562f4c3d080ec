package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/ora"
	"github.com/cognicore/funcenrich/pkg/funcenrich/selector"
)

// Config holds every threshold, path and column name used by the pipelines.
type Config struct {
	Database   Database   `yaml:"database"`
	Inputs     Inputs     `yaml:"inputs"`
	Enrichment Enrichment `yaml:"enrichment"`
	Selection  Selection  `yaml:"selection"`
	Output     Output     `yaml:"output"`
}

// Database locates the annotation store.
type Database struct {
	Path     string `yaml:"path"`
	Organism string `yaml:"organism"` // KEGG organism code, "ko" for orthologs
	KeyType  string `yaml:"key_type"`
}

// Inputs names the identifier files and their columns.
type Inputs struct {
	KeggFile   string `yaml:"kegg_file"`
	KeggColumn string `yaml:"kegg_column"`
	GOFile     string `yaml:"go_file"`
	GOColumn   string `yaml:"go_column"`
	Delimiter  string `yaml:"delimiter"` // "" splits on whitespace
}

// Enrichment configures the over-representation test.
type Enrichment struct {
	PValueCutoff     float64 `yaml:"pvalue_cutoff"`
	QValueCutoff     float64 `yaml:"qvalue_cutoff"`
	AdjustMethod     string  `yaml:"adjust_method"`
	MinGSSize        int     `yaml:"min_gs_size"`
	MaxGSSize        int     `yaml:"max_gs_size"`
	SimilarityCutoff float64 `yaml:"similarity_cutoff"`
}

// Selection configures top-N subsets and label length.
type Selection struct {
	TopN            int `yaml:"top_n"`
	TopNPerCategory int `yaml:"top_n_per_category"`
	LabelMaxLen     int `yaml:"label_max_len"`
}

// Output names result files.
type Output struct {
	Dir                string  `yaml:"dir"`
	EnrichmentTable    string  `yaml:"enrichment_table"`
	KeggFrequencyTable string  `yaml:"kegg_frequency_table"`
	GOFrequencyTable   string  `yaml:"go_frequency_table"`
	GOAnnotatedTable   string  `yaml:"go_annotated_table"`
	TableDelimiter     string  `yaml:"table_delimiter"`
	DPI                float64 `yaml:"dpi"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Database: Database{
			Path:     "annodb.sqlite",
			Organism: "ko",
			KeyType:  "kegg",
		},
		Inputs: Inputs{
			KeggFile:   "kegg_ids.txt",
			KeggColumn: "Kegg_id",
			GOFile:     "go_ids.txt",
			GOColumn:   "GO_id",
			Delimiter:  "\t",
		},
		Enrichment: Enrichment{
			PValueCutoff:     ora.DefaultPValueCutoff,
			QValueCutoff:     ora.DefaultQValueCutoff,
			AdjustMethod:     ora.AdjustBH,
			MinGSSize:        ora.DefaultMinGSSize,
			MaxGSSize:        ora.DefaultMaxGSSize,
			SimilarityCutoff: 0.2,
		},
		Selection: Selection{
			TopN:            20,
			TopNPerCategory: 10,
			LabelMaxLen:     50,
		},
		Output: Output{
			Dir:                "results",
			EnrichmentTable:    "kegg_enrichment_results.csv",
			KeggFrequencyTable: "kegg_frequency.csv",
			GOFrequencyTable:   "go_frequency.csv",
			GOAnnotatedTable:   "go_frequency_annotated.csv",
			TableDelimiter:     ",",
			DPI:                300,
		},
	}
}

// Load reads a YAML file on top of Default. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem found.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Database.Path == "" {
		return invalid("database.path is empty")
	}
	if c.Inputs.KeggColumn == "" || c.Inputs.GOColumn == "" {
		return invalid("input column names must be set")
	}

	e := c.Enrichment
	if e.PValueCutoff <= 0 || e.PValueCutoff > 1 {
		return invalid("pvalue_cutoff %v outside (0, 1]", e.PValueCutoff)
	}
	if e.QValueCutoff <= 0 || e.QValueCutoff > 1 {
		return invalid("qvalue_cutoff %v outside (0, 1]", e.QValueCutoff)
	}
	if _, err := ora.AdjustFunc(e.AdjustMethod); err != nil {
		return invalid("adjust_method %q", e.AdjustMethod)
	}
	if e.MinGSSize < 1 {
		return invalid("min_gs_size must be >= 1, got %d", e.MinGSSize)
	}
	if e.MaxGSSize < e.MinGSSize {
		return invalid("max_gs_size %d below min_gs_size %d", e.MaxGSSize, e.MinGSSize)
	}
	if e.SimilarityCutoff < 0 || e.SimilarityCutoff > 1 {
		return invalid("similarity_cutoff %v outside [0, 1]", e.SimilarityCutoff)
	}

	s := c.Selection
	if s.TopN < 1 || s.TopNPerCategory < 1 {
		return invalid("top_n and top_n_per_category must be positive")
	}
	if s.LabelMaxLen < selector.MinLabelLen {
		return invalid("label_max_len must be >= %d, got %d", selector.MinLabelLen, s.LabelMaxLen)
	}

	o := c.Output
	if o.Dir == "" {
		return invalid("output.dir is empty")
	}
	if utf8.RuneCountInString(o.TableDelimiter) != 1 {
		return invalid("table_delimiter must be one character, got %q", o.TableDelimiter)
	}
	if o.DPI <= 0 {
		return invalid("dpi must be positive")
	}
	return nil
}
