package annotate

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/cognicore/funcenrich/pkg/funcenrich/freq"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// Ontology is the short GO category code.
type Ontology string

const (
	BP Ontology = "BP"
	CC Ontology = "CC"
	MF Ontology = "MF"
)

// Order is the fixed block order used for grouped tables and charts.
var Order = []Ontology{BP, CC, MF}

var fullNames = map[Ontology]string{
	BP: "biological_process",
	CC: "cellular_component",
	MF: "molecular_function",
}

// Full returns the namespace name, e.g. "biological_process".
func (o Ontology) Full() string {
	return fullNames[o]
}

// Valid reports whether o is one of BP, CC or MF.
func (o Ontology) Valid() bool {
	_, ok := fullNames[o]
	return ok
}

// FromNamespace maps an OBO namespace to its ontology code.
func FromNamespace(ns string) (Ontology, bool) {
	for code, full := range fullNames {
		if full == ns {
			return code, true
		}
	}
	return "", false
}

// Row is a frequency row with its term name and ontology.
type Row struct {
	ID          string
	Count       int
	Description string
	Ontology    Ontology
}

// Result holds the annotated rows that survived the ontology filter.
type Result struct {
	Rows       []Row
	Unresolved []Row // rows dropped because no ontology could be resolved
}

// Annotate attaches term names and ontology codes to rows. Rows whose
// term is unknown or obsolete get Description = ID and no ontology, and
// are moved to Result.Unresolved. Input order is preserved.
func Annotate(ctx context.Context, rows []freq.Row, terms store.TermView) (Result, error) {
	if len(rows) == 0 {
		return Result{}, nil
	}
	var annotated []Row
	if err := copier.Copy(&annotated, &rows); err != nil {
		return Result{}, fmt.Errorf("copy frequency rows: %w", err)
	}

	var res Result
	for _, row := range annotated {
		row.Description = row.ID

		term, ok, err := terms.Lookup(ctx, row.ID)
		if err != nil {
			return Result{}, fmt.Errorf("lookup %s: %w", row.ID, err)
		}
		if ok && !term.Obsolete {
			if term.Name != "" {
				row.Description = term.Name
			}
			if code, ok := FromNamespace(term.Namespace); ok {
				row.Ontology = code
			}
		}

		if !row.Ontology.Valid() {
			res.Unresolved = append(res.Unresolved, row)
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// CategoryTotals sums counts per ontology.
func CategoryTotals(rows []Row) map[Ontology]int {
	totals := make(map[Ontology]int, len(Order))
	for _, r := range rows {
		totals[r.Ontology] += r.Count
	}
	return totals
}
