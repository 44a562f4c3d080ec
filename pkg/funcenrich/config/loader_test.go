package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store/sqlite"
)

func TestLoaderMissingDatabase(t *testing.T) {
	l := Loader{DatabasePath: filepath.Join(t.TempDir(), "missing.sqlite")}
	if _, err := l.Load(context.Background()); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}

	l = Loader{}
	if _, err := l.Load(context.Background()); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable for empty path, got %v", err)
	}
}

func TestLoaderOpensExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "annodb.sqlite")

	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertPathway(ctx, store.Pathway{ID: "map00010", Genes: []string{"K00844"}}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	l := Loader{DatabasePath: path}
	comp, err := l.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Store.Close()

	if comp.Pathways != 1 {
		t.Errorf("expected 1 pathway, got %d", comp.Pathways)
	}
	if comp.Terms != nil {
		t.Error("terms view should be nil without ontology terms")
	}

	if err := comp.Store.UpsertTerms(ctx, []store.Term{{ID: "GO:0008150", Name: "biological_process", Namespace: "biological_process"}}); err != nil {
		t.Fatal(err)
	}
	comp.Store.Close()

	comp, err = l.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer comp.Store.Close()
	if comp.Terms == nil {
		t.Error("terms view should be set once terms exist")
	}
}
