package store

import (
	"context"
	"strings"
)

// Store is the main interface for persisting and querying annotation data
type Store interface {
	Close() error

	// Pathways
	UpsertPathway(ctx context.Context, p Pathway) error
	Pathways(ctx context.Context) ([]Pathway, error)
	PathwayCount(ctx context.Context) (int, error)

	// Ontology terms
	UpsertTerms(ctx context.Context, terms []Term) error
	Terms() TermView
}

// Pathway is a named gene set from the pathway database.
// Genes holds ortholog identifiers (e.g. K00001) in insertion order.
type Pathway struct {
	ID    string
	Name  string
	Genes []string
}

// Term is a single ontology term
type Term struct {
	ID        string
	Name      string
	Namespace string // biological_process, cellular_component, molecular_function
	AltIDs    []string
	Obsolete  bool
}

// TermView provides read access to the terminology database
type TermView interface {
	// Lookup resolves a term by primary or alternative ID.
	Lookup(ctx context.Context, id string) (Term, bool, error)
	Count(ctx context.Context) (int, error)
}

// UniqueStrings trims values and drops empties and repeats, keeping the
// first occurrence order. Stores apply it to gene lists on write.
func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
