package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/funcenrich/pkg/funcenrich/chart"
	"github.com/cognicore/funcenrich/pkg/funcenrich/config"
	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/ora"
	"github.com/cognicore/funcenrich/pkg/funcenrich/report"
	"github.com/cognicore/funcenrich/pkg/funcenrich/selector"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/table"
)

// Chart names for the enrichment run.
const (
	ChartEnrichmentBar     = "kegg_enrichment_barplot"
	ChartEnrichmentDot     = "kegg_enrichment_dotplot"
	ChartEnrichmentNetwork = "kegg_enrichment_network"
)

// EnrichmentColumns is the header of the enrichment table.
var EnrichmentColumns = []string{"ID", "Description", "GeneRatio", "BgRatio", "pvalue", "p.adjust", "qvalue", "geneID", "Count"}

// minPAdjust keeps -log10 finite for p.adjust underflowing to zero.
const minPAdjust = 1e-300

// RunEnrichment tests the KEGG identifiers in cfg.Inputs.KeggFile for
// pathway over-representation. When nothing is enriched it prints a
// report and writes no files.
func RunEnrichment(ctx context.Context, cfg config.Config, st store.Store, out io.Writer) (Result, error) {
	r := newRunner("kegg-enrich", cfg, out, time.Now())

	ids, err := table.ReadColumn(cfg.Inputs.KeggFile, cfg.Inputs.KeggColumn, cfg.Inputs.Delimiter)
	if err != nil {
		return Result{}, fmt.Errorf("load identifiers: %w", err)
	}
	r.manifest.Inputs = append(r.manifest.Inputs, cfg.Inputs.KeggFile)
	log.Printf("loaded %d identifiers from %s", len(ids), cfg.Inputs.KeggFile)

	pathways, err := st.Pathways(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load pathways: %w", err)
	}
	if len(pathways) == 0 {
		return Result{}, fmt.Errorf("%w: annotation database has no pathways", internalerr.ErrStoreUnavailable)
	}

	th := report.Thresholds{
		PValueCutoff: cfg.Enrichment.PValueCutoff,
		QValueCutoff: cfg.Enrichment.QValueCutoff,
		AdjustMethod: cfg.Enrichment.AdjustMethod,
		MinGSSize:    cfg.Enrichment.MinGSSize,
	}
	tbl, err := ora.Run(ctx, ora.Request{
		Genes:        ids,
		Pathways:     pathways,
		PValueCutoff: cfg.Enrichment.PValueCutoff,
		QValueCutoff: cfg.Enrichment.QValueCutoff,
		AdjustMethod: cfg.Enrichment.AdjustMethod,
		MinGSSize:    cfg.Enrichment.MinGSSize,
		MaxGSSize:    cfg.Enrichment.MaxGSSize,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, err
		}
		log.Printf("enrichment failed: %v", err)
		report.NoEnrichment(r.out, ora.Table{QueryGenes: len(ids)}, th)
		return Result{Manifest: r.manifest}, nil
	}
	if tbl.Empty() {
		log.Printf("enrichment: %v", tbl.Err())
		report.NoEnrichment(r.out, tbl, th)
		return Result{Manifest: r.manifest}, nil
	}

	report.EnrichmentSummary(r.out, tbl, cfg.Selection.TopN)

	// rows arrive sorted by p-value from ora.Run; keep that order throughout
	tablePath := r.outputPath(cfg.Output.EnrichmentTable)
	if err := table.WriteDelimited(tablePath, EnrichmentTable(tbl), cfg.Output.TableDelimiter); err != nil {
		return Result{}, fmt.Errorf("write enrichment table: %w", err)
	}
	r.manifest.Tables = append(r.manifest.Tables, tablePath)

	top := selector.TopN(tbl.Rows, cfg.Selection.TopN)
	rows := EnrichmentPlotRows(top, cfg.Selection.LabelMaxLen)

	barRows := make([]chart.Row, len(rows))
	for i, row := range rows {
		barRows[i] = row
		barRows[i].Value = -math.Log10(math.Max(row.Color, minPAdjust))
	}
	r.chart(r.renderer.Bar(ChartEnrichmentBar, "KEGG pathway enrichment", "-log10(p.adjust)", barRows, chart.BarSize))
	r.chart(r.renderer.Dot(ChartEnrichmentDot, "KEGG pathway enrichment", "GeneRatio", rows, chart.DotSize))

	var edges []chart.Edge
	for _, e := range ora.Similarity(top, cfg.Enrichment.SimilarityCutoff) {
		edges = append(edges, chart.Edge{From: e.From, To: e.To, Weight: e.Similarity})
	}
	r.chart(r.renderer.Network(ChartEnrichmentNetwork, "Pathway similarity", rows, edges, chart.NetworkSize))

	res, err := r.finish()
	res.Enriched = true
	return res, err
}

// EnrichmentTable renders every result row with all columns, in order.
func EnrichmentTable(tbl ora.Table) table.Table {
	out := table.Table{Header: EnrichmentColumns}
	for _, row := range tbl.Rows {
		out.Rows = append(out.Rows, []string{
			row.ID,
			row.Description,
			row.GeneRatio,
			row.BgRatio,
			formatFloat(row.PValue),
			formatFloat(row.PAdjust),
			formatFloat(row.QValue),
			strings.Join(row.GeneIDs, "/"),
			strconv.Itoa(row.Count),
		})
	}
	return out
}

// EnrichmentPlotRows projects results to chart rows: Value is the gene
// ratio, Size the hit count and Color the adjusted p-value.
func EnrichmentPlotRows(rows []ora.Result, labelMaxLen int) []chart.Row {
	out := make([]chart.Row, len(rows))
	for i, r := range rows {
		label := r.Description
		if label == "" {
			label = r.ID
		}
		out[i] = chart.Row{
			Label: selector.Truncate(label, labelMaxLen),
			Value: r.GeneRatioValue(),
			Size:  float64(r.Count),
			Color: r.PAdjust,
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
