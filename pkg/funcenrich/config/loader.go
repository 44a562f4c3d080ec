package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store/sqlite"
)

// Loader opens the annotation store named by the configuration
type Loader struct {
	DatabasePath string
}

// Components holds the opened annotation sources. Terms is nil when the
// store has no ontology terms loaded.
type Components struct {
	Store    store.Store
	Pathways int
	Terms    store.TermView
}

// Load opens an existing annotation database. A missing file yields
// ErrStoreUnavailable so callers can degrade instead of creating an
// empty database by accident.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	if l.DatabasePath == "" {
		return nil, fmt.Errorf("%w: no database path", internalerr.ErrStoreUnavailable)
	}
	if _, err := os.Stat(l.DatabasePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", internalerr.ErrStoreUnavailable, l.DatabasePath)
		}
		return nil, err
	}

	st, err := sqlite.OpenSQLite(ctx, l.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open annotation db: %w", err)
	}

	comp := &Components{Store: st}

	comp.Pathways, err = st.PathwayCount(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("count pathways: %w", err)
	}

	terms := st.Terms()
	n, err := terms.Count(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("count terms: %w", err)
	}
	if n > 0 {
		comp.Terms = terms
	}

	return comp, nil
}
