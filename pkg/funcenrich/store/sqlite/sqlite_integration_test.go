package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "annodb.sqlite")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestSQLitePathwayRoundTrip checks gene order and dedup on upsert
func TestSQLitePathwayRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertPathway(ctx, store.Pathway{
		ID:    "map00010",
		Name:  "Glycolysis / Gluconeogenesis",
		Genes: []string{"K00844", "K01810", "K00844", "", "K00850"},
	}); err != nil {
		t.Fatalf("UpsertPathway: %v", err)
	}
	if err := st.UpsertPathway(ctx, store.Pathway{
		ID:    "map00020",
		Name:  "Citrate cycle (TCA cycle)",
		Genes: []string{"K01647"},
	}); err != nil {
		t.Fatalf("UpsertPathway: %v", err)
	}

	pathways, err := st.Pathways(ctx)
	if err != nil {
		t.Fatalf("Pathways: %v", err)
	}
	if len(pathways) != 2 {
		t.Fatalf("expected 2 pathways, got %d", len(pathways))
	}
	got := pathways[0]
	if got.ID != "map00010" || got.Name != "Glycolysis / Gluconeogenesis" {
		t.Errorf("unexpected first pathway %+v", got)
	}
	want := []string{"K00844", "K01810", "K00850"}
	if len(got.Genes) != len(want) {
		t.Fatalf("expected genes %v, got %v", want, got.Genes)
	}
	for i := range want {
		if got.Genes[i] != want[i] {
			t.Errorf("gene %d: got %s, want %s", i, got.Genes[i], want[i])
		}
	}

	n, err := st.PathwayCount(ctx)
	if err != nil {
		t.Fatalf("PathwayCount: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

// TestSQLitePathwayReplaceKeepsName verifies that a name-less upsert
// replaces the gene set without wiping the stored name
func TestSQLitePathwayReplaceKeepsName(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertPathway(ctx, store.Pathway{ID: "map00010", Name: "Glycolysis", Genes: []string{"K1", "K2"}}); err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertPathway(ctx, store.Pathway{ID: "map00010", Genes: []string{"K3"}}); err != nil {
		t.Fatal(err)
	}

	pathways, err := st.Pathways(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pathways) != 1 {
		t.Fatalf("expected 1 pathway, got %d", len(pathways))
	}
	if pathways[0].Name != "Glycolysis" {
		t.Errorf("name should survive, got %q", pathways[0].Name)
	}
	if len(pathways[0].Genes) != 1 || pathways[0].Genes[0] != "K3" {
		t.Errorf("genes should be replaced, got %v", pathways[0].Genes)
	}
}

func TestSQLiteTermLookup(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	terms := []store.Term{
		{ID: "GO:0008150", Name: "biological_process", Namespace: "biological_process", AltIDs: []string{"GO:0000004", "GO:0007582"}},
		{ID: "GO:0005575", Name: "cellular_component", Namespace: "cellular_component"},
		{ID: "GO:0000005", Name: "obsolete thing", Namespace: "molecular_function", Obsolete: true},
	}
	if err := st.UpsertTerms(ctx, terms); err != nil {
		t.Fatalf("UpsertTerms: %v", err)
	}

	view := st.Terms()
	n, err := view.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 terms, got %d", n)
	}

	term, ok, err := view.Lookup(ctx, "GO:0008150")
	if err != nil || !ok {
		t.Fatalf("Lookup primary: ok=%v err=%v", ok, err)
	}
	if term.Namespace != "biological_process" || len(term.AltIDs) != 2 {
		t.Errorf("unexpected term %+v", term)
	}

	term, ok, err = view.Lookup(ctx, "GO:0007582")
	if err != nil || !ok {
		t.Fatalf("Lookup alt id: ok=%v err=%v", ok, err)
	}
	if term.ID != "GO:0008150" {
		t.Errorf("alt id should resolve to GO:0008150, got %s", term.ID)
	}

	term, ok, err = view.Lookup(ctx, "GO:0000005")
	if err != nil || !ok {
		t.Fatalf("Lookup obsolete: ok=%v err=%v", ok, err)
	}
	if !term.Obsolete {
		t.Error("expected obsolete flag")
	}

	if _, ok, err := view.Lookup(ctx, "GO:9999999"); err != nil || ok {
		t.Errorf("unknown term: ok=%v err=%v", ok, err)
	}
}

func TestSQLiteReopenPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "annodb.sqlite")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertPathway(ctx, store.Pathway{ID: "map00010", Genes: []string{"K00844"}}); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	n, err := st.PathwayCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected persisted pathway, got count %d", n)
	}
}
