package annotate

import (
	"context"
	"testing"

	"github.com/cognicore/funcenrich/pkg/funcenrich/freq"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store/memstore"
)

func termStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	err := s.UpsertTerms(context.Background(), []store.Term{
		{ID: "GO:0006096", Name: "glycolytic process", Namespace: "biological_process"},
		{ID: "GO:0005737", Name: "cytoplasm", Namespace: "cellular_component"},
		{ID: "GO:0004340", Name: "glucokinase activity", Namespace: "molecular_function", AltIDs: []string{"GO:0004396"}},
		{ID: "GO:0000001", Name: "old", Namespace: "biological_process", Obsolete: true},
		{ID: "GO:0000002", Name: "odd", Namespace: "external"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAnnotateResolvesAndFilters(t *testing.T) {
	s := termStore(t)
	rows := []freq.Row{
		{ID: "GO:0005737", Count: 9},
		{ID: "GO:9999999", Count: 5},
		{ID: "GO:0006096", Count: 4},
		{ID: "GO:0000001", Count: 3},
		{ID: "GO:0004396", Count: 2},
		{ID: "GO:0000002", Count: 1},
	}

	res, err := Annotate(context.Background(), rows, s.Terms())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	want := []Row{
		{ID: "GO:0005737", Count: 9, Description: "cytoplasm", Ontology: CC},
		{ID: "GO:0006096", Count: 4, Description: "glycolytic process", Ontology: BP},
		{ID: "GO:0004396", Count: 2, Description: "glucokinase activity", Ontology: MF},
	}
	if len(res.Rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), res.Rows)
	}
	for i := range want {
		if res.Rows[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, res.Rows[i], want[i])
		}
	}

	if len(res.Unresolved) != 3 {
		t.Fatalf("expected 3 unresolved rows, got %+v", res.Unresolved)
	}
	for _, r := range res.Unresolved {
		if r.Ontology != "" {
			t.Errorf("unresolved row %s should have no ontology", r.ID)
		}
		if r.ID == "GO:9999999" && r.Description != "GO:9999999" {
			t.Errorf("missing term should fall back to its ID, got %q", r.Description)
		}
	}
}

func TestOntologyNames(t *testing.T) {
	for _, o := range Order {
		code, ok := FromNamespace(o.Full())
		if !ok || code != o {
			t.Errorf("round trip failed for %s", o)
		}
	}
	if Ontology("XX").Valid() {
		t.Error("XX should not be valid")
	}
}

func TestCategoryTotals(t *testing.T) {
	totals := CategoryTotals([]Row{
		{Count: 3, Ontology: BP},
		{Count: 2, Ontology: BP},
		{Count: 4, Ontology: MF},
	})
	if totals[BP] != 5 || totals[MF] != 4 || totals[CC] != 0 {
		t.Errorf("unexpected totals %v", totals)
	}
}

func TestAnnotateCarriesEveryRow(t *testing.T) {
	s := termStore(t)
	rows := freq.Count([]string{"GO:0006096", "GO:0005737", "GO:0006096", "GO:0000002"})

	res, err := Annotate(context.Background(), rows, s.Terms())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got := len(res.Rows) + len(res.Unresolved); got != len(rows) {
		t.Fatalf("expected %d rows in total, got %d", len(rows), got)
	}
	if res.Rows[0].ID != "GO:0006096" || res.Rows[0].Count != 2 {
		t.Errorf("first row lost its identity: %+v", res.Rows[0])
	}
	if res.Unresolved[0].ID != "GO:0000002" || res.Unresolved[0].Count != 1 || res.Unresolved[0].Description != "GO:0000002" {
		t.Errorf("unresolved row: %+v", res.Unresolved[0])
	}
	if rows[0].ID != "GO:0006096" {
		t.Error("input rows must not be modified")
	}

	empty, err := Annotate(context.Background(), nil, s.Terms())
	if err != nil || len(empty.Rows) != 0 || len(empty.Unresolved) != 0 {
		t.Errorf("empty input: %+v, %v", empty, err)
	}
}
