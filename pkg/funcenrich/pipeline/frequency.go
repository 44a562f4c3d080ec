package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/cognicore/funcenrich/pkg/funcenrich/annotate"
	"github.com/cognicore/funcenrich/pkg/funcenrich/chart"
	"github.com/cognicore/funcenrich/pkg/funcenrich/config"
	"github.com/cognicore/funcenrich/pkg/funcenrich/freq"
	"github.com/cognicore/funcenrich/pkg/funcenrich/report"
	"github.com/cognicore/funcenrich/pkg/funcenrich/selector"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/table"
)

// Chart names for the frequency run.
const (
	ChartKeggTop       = "kegg_top_frequency"
	ChartGOTop         = "go_top_frequency"
	ChartGOByCategory  = "go_top_by_category"
	ChartGOCategorySum = "go_category_summary"
)

// RunFrequency tabulates the KEGG and GO identifier files named in cfg
// (either may be empty to skip it). terms may be nil, in which case GO
// identifiers are counted but not annotated.
func RunFrequency(ctx context.Context, cfg config.Config, terms store.TermView, out io.Writer) (Result, error) {
	r := newRunner("annot-freq", cfg, out, time.Now())

	if cfg.Inputs.KeggFile != "" {
		if err := r.keggFrequency(); err != nil {
			return Result{}, err
		}
	}
	if cfg.Inputs.GOFile != "" {
		if err := r.goFrequency(ctx, terms); err != nil {
			return Result{}, err
		}
	}
	return r.finish()
}

func (r *runner) readCounts(path, column string) ([]freq.Row, error) {
	ids, err := table.ReadColumn(path, column, r.cfg.Inputs.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("load identifiers: %w", err)
	}
	r.manifest.Inputs = append(r.manifest.Inputs, path)
	log.Printf("loaded %d identifiers from %s", len(ids), path)
	return freq.Count(ids), nil
}

func (r *runner) writeTable(name string, t table.Table) error {
	path := r.outputPath(name)
	if err := table.WriteDelimited(path, t, r.cfg.Output.TableDelimiter); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	r.manifest.Tables = append(r.manifest.Tables, path)
	return nil
}

func (r *runner) keggFrequency() error {
	rows, err := r.readCounts(r.cfg.Inputs.KeggFile, r.cfg.Inputs.KeggColumn)
	if err != nil {
		return err
	}
	report.FrequencySummary(r.out, "KEGG identifier frequency", rows, r.cfg.Selection.TopN)

	if err := r.writeTable(r.cfg.Output.KeggFrequencyTable, FrequencyTable(r.cfg.Inputs.KeggColumn, rows)); err != nil {
		return err
	}

	top := selector.TopN(rows, r.cfg.Selection.TopN)
	r.chart(r.renderer.Bar(ChartKeggTop, "Most frequent KEGG identifiers", "Count",
		FrequencyPlotRows(top, r.cfg.Selection.LabelMaxLen), chart.BarSize))
	return nil
}

func (r *runner) goFrequency(ctx context.Context, terms store.TermView) error {
	rows, err := r.readCounts(r.cfg.Inputs.GOFile, r.cfg.Inputs.GOColumn)
	if err != nil {
		return err
	}
	report.FrequencySummary(r.out, "GO identifier frequency", rows, r.cfg.Selection.TopN)

	if err := r.writeTable(r.cfg.Output.GOFrequencyTable, FrequencyTable(r.cfg.Inputs.GOColumn, rows)); err != nil {
		return err
	}

	if terms == nil {
		log.Printf("GO terminology database not loaded; skipping annotation (run build-annodb with -obo to add it)")
		top := selector.TopN(rows, r.cfg.Selection.TopN)
		r.chart(r.renderer.Bar(ChartGOTop, "Most frequent GO terms", "Count",
			FrequencyPlotRows(top, r.cfg.Selection.LabelMaxLen), chart.BarSize))
		return nil
	}

	res, err := annotate.Annotate(ctx, rows, terms)
	if err != nil {
		return fmt.Errorf("annotate GO terms: %w", err)
	}
	report.CategorySummary(r.out, res)

	if err := r.writeTable(r.cfg.Output.GOAnnotatedTable, AnnotatedTable(r.cfg.Inputs.GOColumn, res.Rows)); err != nil {
		return err
	}

	selected := selector.PerCategoryTopN(res.Rows, r.cfg.Selection.TopNPerCategory)
	r.chart(r.renderer.Bar(ChartGOByCategory, "Most frequent GO terms by category", "Count",
		AnnotatedPlotRows(selected, r.cfg.Selection.LabelMaxLen), chart.GroupedSize))
	r.chart(r.renderer.Bar(ChartGOCategorySum, "GO annotations per category", "Count",
		CategoryPlotRows(res.Rows), chart.SummarySize))
	return nil
}

// FrequencyTable renders an identifier/count table.
func FrequencyTable(column string, rows []freq.Row) table.Table {
	out := table.Table{Header: []string{column, "Count"}}
	for _, row := range rows {
		out.Rows = append(out.Rows, []string{row.ID, strconv.Itoa(row.Count)})
	}
	return out
}

// AnnotatedTable renders annotated GO rows with full descriptions.
func AnnotatedTable(column string, rows []annotate.Row) table.Table {
	out := table.Table{Header: []string{column, "Count", "Description", "Ontology", "Ontology_full"}}
	for _, row := range rows {
		out.Rows = append(out.Rows, []string{
			row.ID,
			strconv.Itoa(row.Count),
			row.Description,
			string(row.Ontology),
			row.Ontology.Full(),
		})
	}
	return out
}

// FrequencyPlotRows labels bars with the identifier.
func FrequencyPlotRows(rows []freq.Row, labelMaxLen int) []chart.Row {
	out := make([]chart.Row, len(rows))
	for i, r := range rows {
		out[i] = chart.Row{Label: selector.Truncate(r.ID, labelMaxLen), Value: float64(r.Count), Size: float64(r.Count)}
	}
	return out
}

// AnnotatedPlotRows labels bars with the term name, coloured by ontology.
func AnnotatedPlotRows(rows []annotate.Row, labelMaxLen int) []chart.Row {
	out := make([]chart.Row, len(rows))
	for i, r := range rows {
		out[i] = chart.Row{
			Label:    selector.Truncate(r.Description, labelMaxLen),
			Value:    float64(r.Count),
			Category: string(r.Ontology),
			Size:     float64(r.Count),
		}
	}
	return out
}

// CategoryPlotRows produces one bar per ontology in BP, CC, MF order.
func CategoryPlotRows(rows []annotate.Row) []chart.Row {
	totals := annotate.CategoryTotals(rows)
	out := make([]chart.Row, 0, len(annotate.Order))
	for _, cat := range annotate.Order {
		out = append(out, chart.Row{
			Label:    cat.Full(),
			Value:    float64(totals[cat]),
			Category: string(cat),
		})
	}
	return out
}
