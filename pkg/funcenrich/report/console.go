package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cognicore/funcenrich/pkg/funcenrich/annotate"
	"github.com/cognicore/funcenrich/pkg/funcenrich/freq"
	"github.com/cognicore/funcenrich/pkg/funcenrich/ora"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	good    = color.New(color.FgGreen)
)

// Thresholds are the cutoffs echoed in reports.
type Thresholds struct {
	PValueCutoff float64
	QValueCutoff float64
	AdjustMethod string
	MinGSSize    int
}

// EnrichmentSummary prints the run totals and the first top rows.
func EnrichmentSummary(w io.Writer, tbl ora.Table, top int) {
	heading.Fprintln(w, "KEGG enrichment")
	fmt.Fprintf(w, "  query genes: %d (mapped %d), universe: %d, pathways tested: %d\n",
		tbl.QueryGenes, tbl.MappedGenes, tbl.Universe, tbl.Tested)
	good.Fprintf(w, "  significant pathways: %d\n", len(tbl.Rows))
	for i, r := range tbl.Rows {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "  %2d. %-10s %-45s p=%.3g padj=%.3g %s\n", i+1, r.ID, r.Description, r.PValue, r.PAdjust, r.GeneRatio)
	}
}

// NoEnrichment explains an empty result and suggests relaxed settings.
func NoEnrichment(w io.Writer, tbl ora.Table, th Thresholds) {
	warn.Fprintln(w, "No enriched pathways found")
	fmt.Fprintf(w, "  query genes: %d, mapped to the pathway database: %d, pathways tested: %d\n",
		tbl.QueryGenes, tbl.MappedGenes, tbl.Tested)
	if tbl.MappedGenes == 0 {
		fmt.Fprintln(w, "  none of the identifiers matched the database; check the identifier column and organism")
	}
	fmt.Fprintln(w, "  suggestions:")
	fmt.Fprintf(w, "    - raise the p-value cutoff (now %g), e.g. to %g\n", th.PValueCutoff, relax(th.PValueCutoff))
	fmt.Fprintf(w, "    - raise the q-value cutoff (now %g), e.g. to %g\n", th.QValueCutoff, relax(th.QValueCutoff))
	if th.AdjustMethod != ora.AdjustNone {
		fmt.Fprintf(w, "    - use a less strict adjust method than %q (e.g. %q)\n", th.AdjustMethod, ora.AdjustNone)
	}
	if th.MinGSSize > 1 {
		fmt.Fprintf(w, "    - lower the minimum gene set size (now %d)\n", th.MinGSSize)
	}
	fmt.Fprintln(w, "  no files were written")
}

func relax(v float64) float64 {
	r := v * 2
	if r > 1 {
		return 1
	}
	return r
}

// FrequencySummary prints totals and the first top rows of a frequency table.
func FrequencySummary(w io.Writer, title string, rows []freq.Row, top int) {
	heading.Fprintln(w, title)
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	fmt.Fprintf(w, "  records: %d, distinct identifiers: %d\n", total, len(rows))
	for i, r := range rows {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "  %2d. %-15s %d\n", i+1, r.ID, r.Count)
	}
}

// CategorySummary prints per-ontology totals in BP, CC, MF order.
func CategorySummary(w io.Writer, res annotate.Result) {
	heading.Fprintln(w, "GO categories")
	totals := annotate.CategoryTotals(res.Rows)
	terms := make(map[annotate.Ontology]int)
	for _, r := range res.Rows {
		terms[r.Ontology]++
	}
	for _, cat := range annotate.Order {
		fmt.Fprintf(w, "  %s (%s): %d terms, %d annotations\n", cat, cat.Full(), terms[cat], totals[cat])
	}
	if len(res.Unresolved) > 0 {
		warn.Fprintf(w, "  dropped %d terms without a resolvable ontology\n", len(res.Unresolved))
	}
}
