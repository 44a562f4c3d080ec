// Package ora runs an over-representation analysis of a query gene set
// against the pathways of an annotation database.
//
// For every pathway the test counts
//
//	k = query genes in the pathway
//	M = pathway size within the universe
//	n = annotated query genes
//	N = annotated universe size
//
// and reports the upper tail P(X >= k) of the hypergeometric
// distribution, which equals the one-sided Fisher exact test on the
// 2x2 table [[k, n-k], [M-k, N-M-n+k]]. The tail is summed in log space
// so universes of many thousand genes stay finite.
package ora

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/cognicore/funcenrich/pkg/funcenrich/freq"
	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// Default cutoffs match the usual KEGG enrichment settings.
const (
	DefaultPValueCutoff = 0.05
	DefaultQValueCutoff = 0.2
	DefaultMinGSSize    = 10
	DefaultMaxGSSize    = 500
)

// Request describes one enrichment run.
type Request struct {
	Genes    []string        // query identifiers, duplicates allowed
	Universe []string        // background; empty means every annotated gene
	Pathways []store.Pathway // gene sets to test

	PValueCutoff float64
	QValueCutoff float64
	AdjustMethod string
	MinGSSize    int
	MaxGSSize    int
}

// Result is one enriched pathway.
type Result struct {
	ID          string
	Description string
	GeneRatio   string // k/n
	BgRatio     string // M/N
	PValue      float64
	PAdjust     float64
	QValue      float64
	GeneIDs     []string // query genes in the pathway, query order
	Count       int
}

// GeneRatioValue returns k/n as a float.
func (r Result) GeneRatioValue() float64 {
	return ratioValue(r.GeneRatio)
}

// Table is the outcome of Run. Rows are sorted ascending by p-value,
// ties broken by pathway ID, so Rows[0] is the most significant pathway.
// Callers rely on this order and must not re-sort.
type Table struct {
	Rows []Result

	QueryGenes  int // distinct query genes submitted
	MappedGenes int // n: query genes annotated in the universe
	Universe    int // N
	Tested      int // pathways that went through the test
}

// Empty reports whether no pathway passed the cutoffs.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Err explains an empty table with an ErrNoEnrichment-wrapped error. It
// returns nil when rows are present.
func (t Table) Err() error {
	switch {
	case !t.Empty():
		return nil
	case t.MappedGenes == 0:
		return fmt.Errorf("%w: none of %d query genes are in the universe", internalerr.ErrNoEnrichment, t.QueryGenes)
	case t.Tested == 0:
		return fmt.Errorf("%w: no pathway within the gene set size limits overlaps the query", internalerr.ErrNoEnrichment)
	default:
		return fmt.Errorf("%w: none of %d tested pathways passed the cutoffs", internalerr.ErrNoEnrichment, t.Tested)
	}
}

// Run deduplicates the query, tests every eligible pathway and returns
// the rows passing the p-value, adjusted p-value and q-value cutoffs.
// A run with nothing to report returns an empty Table and a nil error.
func Run(ctx context.Context, req Request) (Table, error) {
	adjust, err := AdjustFunc(req.AdjustMethod)
	if err != nil {
		return Table{}, err
	}
	if req.MaxGSSize > 0 && req.MinGSSize > req.MaxGSSize {
		return Table{}, fmt.Errorf("%w: min gene set size %d exceeds max %d", internalerr.ErrInvalidInput, req.MinGSSize, req.MaxGSSize)
	}

	query := freq.Unique(req.Genes)
	table := Table{QueryGenes: len(query)}

	annotated := make(map[string]struct{})
	for _, p := range req.Pathways {
		for _, g := range p.Genes {
			annotated[g] = struct{}{}
		}
	}
	universe := annotated
	if len(req.Universe) > 0 {
		universe = make(map[string]struct{}, len(req.Universe))
		for _, g := range req.Universe {
			if _, ok := annotated[g]; ok {
				universe[g] = struct{}{}
			}
		}
	}
	table.Universe = len(universe)

	var mapped []string
	inQuery := make(map[string]struct{}, len(query))
	for _, g := range query {
		if _, ok := universe[g]; ok {
			mapped = append(mapped, g)
			inQuery[g] = struct{}{}
		}
	}
	table.MappedGenes = len(mapped)
	if len(mapped) == 0 {
		return table, nil
	}

	var cands []Result
	for _, p := range req.Pathways {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}

		members := make(map[string]struct{}, len(p.Genes))
		for _, g := range p.Genes {
			if _, ok := universe[g]; ok {
				members[g] = struct{}{}
			}
		}
		m := len(members)
		if m == 0 || m < req.MinGSSize || (req.MaxGSSize > 0 && m > req.MaxGSSize) {
			continue
		}

		var hits []string
		for _, g := range mapped {
			if _, ok := members[g]; ok {
				hits = append(hits, g)
			}
		}
		if len(hits) == 0 {
			continue
		}

		k, n, N := len(hits), len(mapped), len(universe)
		pvalue := upperTail(k, m, n, N)
		if math.IsNaN(pvalue) || math.IsInf(pvalue, 0) {
			continue
		}
		cands = append(cands, Result{
			ID:          p.ID,
			Description: p.Name,
			GeneRatio:   strconv.Itoa(k) + "/" + strconv.Itoa(n),
			BgRatio:     strconv.Itoa(m) + "/" + strconv.Itoa(N),
			PValue:      pvalue,
			GeneIDs:     hits,
			Count:       k,
		})
	}
	table.Tested = len(cands)
	if len(cands) == 0 {
		return table, nil
	}

	pvalues := make([]float64, len(cands))
	for i, c := range cands {
		pvalues[i] = c.PValue
	}
	padj := adjust(pvalues)
	qvals := QValues(pvalues)

	for i := range cands {
		cands[i].PAdjust = padj[i]
		cands[i].QValue = qvals[i]
	}

	for _, c := range cands {
		if !(c.PValue <= req.PValueCutoff && c.PAdjust <= req.PValueCutoff && c.QValue <= req.QValueCutoff) {
			continue
		}
		table.Rows = append(table.Rows, c)
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		if table.Rows[i].PValue == table.Rows[j].PValue {
			return table.Rows[i].ID < table.Rows[j].ID
		}
		return table.Rows[i].PValue < table.Rows[j].PValue
	})
	return table, nil
}

// upperTail is swapped in tests.
var upperTail = UpperTail

// UpperTail returns P(X >= k) for X ~ Hypergeometric(N, m, n): the chance
// of drawing at least k pathway genes when sampling n genes from a
// universe of N containing m pathway genes.
func UpperTail(k, m, n, N int) float64 {
	if k <= 0 {
		return 1
	}
	if m > N || n > N || m < 0 || n < 0 {
		return math.NaN()
	}
	hi := min(m, n)
	lo := max(k, n-(N-m))
	if lo > hi {
		return 0
	}

	total := lbinom(N, n)
	var p float64
	for i := lo; i <= hi; i++ {
		p += math.Exp(lbinom(m, i) + lbinom(N-m, n-i) - total)
	}
	return math.Min(1, p)
}

func lbinom(n, k int) float64 {
	return combin.LogGeneralizedBinomial(float64(n), float64(k))
}

func ratioValue(s string) float64 {
	for i := 0; i < len(s); i++ {
		if s[i] != '/' {
			continue
		}
		num, err1 := strconv.ParseFloat(s[:i], 64)
		den, err2 := strconv.ParseFloat(s[i+1:], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0
		}
		return num / den
	}
	return 0
}
