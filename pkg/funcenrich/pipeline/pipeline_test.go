package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/cognicore/funcenrich/pkg/funcenrich/config"
	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/report"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store/memstore"
)

func init() {
	color.NoColor = true
}

func keggRange(from, to int) []string {
	var out []string
	for i := from; i < to; i++ {
		out = append(out, fmt.Sprintf("K%05d", i))
	}
	return out
}

func pathwayStore(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	pathways := []store.Pathway{
		{ID: "ko00010", Name: "Glycolysis / Gluconeogenesis", Genes: keggRange(0, 12)},
		{ID: "ko00020", Name: "Citrate cycle (TCA cycle)", Genes: append(keggRange(4, 10), keggRange(100, 106)...)},
		{ID: "ko00030", Name: "Pentose phosphate pathway", Genes: append(keggRange(0, 6), keggRange(110, 116)...)},
		{ID: "ko09999", Name: "Background", Genes: keggRange(300, 500)},
	}
	for _, p := range pathways {
		if err := s.UpsertPathway(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func writeInput(t *testing.T, dir, name, column string, ids []string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Gene\t" + column + "\n")
	for i, id := range ids {
		fmt.Fprintf(&b, "g%d\t%s\n", i, id)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "results")
	cfg.Output.DPI = 72
	cfg.Inputs.KeggFile = ""
	cfg.Inputs.GOFile = ""
	return cfg
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunEnrichmentWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	ids := append(keggRange(0, 8), keggRange(0, 4)...)
	ids = append(ids, "K00350")
	cfg.Inputs.KeggFile = writeInput(t, t.TempDir(), "kegg.txt", "Kegg_id", ids)

	var out bytes.Buffer
	res, err := RunEnrichment(context.Background(), cfg, pathwayStore(t), &out)
	if err != nil {
		t.Fatalf("RunEnrichment: %v", err)
	}
	if !res.Enriched {
		t.Fatalf("expected enrichment, console:\n%s", out.String())
	}
	if res.ManifestPath == "" {
		t.Error("manifest should be written")
	}

	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.EnrichmentTable))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != strings.Join(EnrichmentColumns, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 3 enriched pathways, got:\n%s", data)
	}
	if !strings.HasPrefix(lines[1], "ko00010,") {
		t.Errorf("most significant pathway should come first: %q", lines[1])
	}

	for _, name := range []string{ChartEnrichmentBar, ChartEnrichmentDot, ChartEnrichmentNetwork} {
		for _, ext := range []string{".pdf", ".png"} {
			if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name+ext)); err != nil {
				t.Errorf("missing chart %s%s: %v", name, ext, err)
			}
		}
	}
	for _, c := range res.Manifest.Charts {
		if c.Skipped != "" {
			t.Errorf("chart %s skipped: %s", c.Name, c.Skipped)
		}
	}
}

func TestRunEnrichmentNoResultWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inputs.KeggFile = writeInput(t, t.TempDir(), "kegg.txt", "Kegg_id", []string{"K00300", "K00301", "UNKNOWN"})

	var out bytes.Buffer
	res, err := RunEnrichment(context.Background(), cfg, pathwayStore(t), &out)
	if err != nil {
		t.Fatalf("RunEnrichment: %v", err)
	}
	if res.Enriched || res.ManifestPath != "" {
		t.Errorf("expected no enrichment, got %+v", res)
	}
	if files := listFiles(t, cfg.Output.Dir); len(files) != 0 {
		t.Errorf("no files should be written, found %v", files)
	}
	if !strings.Contains(out.String(), "No enriched pathways") {
		t.Errorf("expected no-enrichment report, got:\n%s", out.String())
	}
}

func TestRunEnrichmentErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inputs.KeggFile = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := RunEnrichment(context.Background(), cfg, pathwayStore(t), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing input error, got %v", err)
	}

	cfg.Inputs.KeggFile = writeInput(t, t.TempDir(), "kegg.txt", "Kegg_id", keggRange(0, 8))
	if _, err := RunEnrichment(context.Background(), cfg, memstore.New(), nil); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable for empty database, got %v", err)
	}
}

func termStore(t *testing.T) store.TermView {
	t.Helper()
	s := memstore.New()
	err := s.UpsertTerms(context.Background(), []store.Term{
		{ID: "GO:0006096", Name: "glycolytic process", Namespace: "biological_process"},
		{ID: "GO:0006412", Name: "translation", Namespace: "biological_process"},
		{ID: "GO:0005737", Name: "cytoplasm", Namespace: "cellular_component"},
		{ID: "GO:0005524", Name: "ATP binding", Namespace: "molecular_function"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s.Terms()
}

func goInput() []string {
	return []string{
		"GO:0005737", "GO:0006096", "GO:0005737", "GO:9999999", "GO:0005524",
		"GO:0006412", "GO:0006096", "GO:0005737", "GO:9999999",
	}
}

func TestRunFrequencyAnnotated(t *testing.T) {
	cfg := testConfig(t)
	in := t.TempDir()
	cfg.Inputs.KeggFile = writeInput(t, in, "kegg.txt", "Kegg_id",
		[]string{"K00001", "K00002", "K00001", "K00003", "K00002", "K00001"})
	cfg.Inputs.GOFile = writeInput(t, in, "go.txt", "GO_id", goInput())

	res, err := RunFrequency(context.Background(), cfg, termStore(t), io.Discard)
	if err != nil {
		t.Fatalf("RunFrequency: %v", err)
	}

	kegg, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.KeggFrequencyTable))
	if err != nil {
		t.Fatal(err)
	}
	if string(kegg) != "Kegg_id,Count\nK00001,3\nK00002,2\nK00003,1\n" {
		t.Errorf("unexpected KEGG table:\n%s", kegg)
	}

	annotated, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.GOAnnotatedTable))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(annotated), "GO:9999999") {
		t.Error("unresolved terms must not reach the annotated table")
	}
	if !strings.HasPrefix(string(annotated), "GO_id,Count,Description,Ontology,Ontology_full\nGO:0005737,3,cytoplasm,CC,cellular_component\n") {
		t.Errorf("unexpected annotated table:\n%s", annotated)
	}

	full, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.GOFrequencyTable))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(full), "GO:9999999,2") {
		t.Error("raw frequency table keeps every identifier")
	}

	for _, name := range []string{ChartKeggTop, ChartGOByCategory, ChartGOCategorySum} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name+".png")); err != nil {
			t.Errorf("missing chart %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, ChartGOTop+".png")); err == nil {
		t.Error("unannotated fallback chart should not be drawn when terms exist")
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, report.ManifestFile)); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
	if len(res.Manifest.Inputs) != 2 || len(res.Manifest.Tables) != 3 {
		t.Errorf("unexpected manifest %+v", res.Manifest)
	}
}

func TestRunFrequencyWithoutTerms(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inputs.GOFile = writeInput(t, t.TempDir(), "go.txt", "GO_id", goInput())

	res, err := RunFrequency(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("RunFrequency: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, ChartGOTop+".pdf")); err != nil {
		t.Errorf("fallback chart missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, cfg.Output.GOAnnotatedTable)); err == nil {
		t.Error("annotated table should not be written without terms")
	}
	if len(res.Manifest.Tables) != 1 {
		t.Errorf("expected only the raw GO table, got %v", res.Manifest.Tables)
	}
}

func TestPlotRowsPreserveOrder(t *testing.T) {
	rows := CategoryPlotRows(nil)
	if len(rows) != 3 || rows[0].Category != "BP" || rows[1].Category != "CC" || rows[2].Category != "MF" {
		t.Errorf("category rows out of order: %+v", rows)
	}
}
