package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and
// creates the annotation schema if it does not exist yet.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS pathways (
	id TEXT PRIMARY KEY,
	name TEXT
);

CREATE TABLE IF NOT EXISTS pathway_genes (
	pathway_id TEXT NOT NULL,
	gene TEXT NOT NULL,
	position INTEGER NOT NULL,
	UNIQUE(pathway_id, gene),
	FOREIGN KEY(pathway_id) REFERENCES pathways(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS go_terms (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	namespace TEXT NOT NULL,
	obsolete INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS go_alt_ids (
	alt_id TEXT PRIMARY KEY,
	term_id TEXT NOT NULL,
	FOREIGN KEY(term_id) REFERENCES go_terms(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertPathway inserts or updates a pathway and replaces its gene set
func (s *sqliteStore) UpsertPathway(ctx context.Context, p store.Pathway) error {
	if p.ID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO pathways (id, name)
VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET
	name=CASE WHEN excluded.name = '' THEN pathways.name ELSE excluded.name END;
`
	if _, err := tx.ExecContext(ctx, stmt, p.ID, p.Name); err != nil {
		return err
	}
	if err := replacePathwayGenes(ctx, tx, p.ID, store.UniqueStrings(p.Genes)); err != nil {
		return err
	}
	return tx.Commit()
}

func replacePathwayGenes(ctx context.Context, tx *sql.Tx, pathwayID string, genes []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pathway_genes WHERE pathway_id=?`, pathwayID); err != nil {
		return err
	}
	if len(genes) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pathway_genes (pathway_id, gene, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, gene := range genes {
		if _, err := stmt.ExecContext(ctx, pathwayID, gene, i); err != nil {
			return err
		}
	}
	return nil
}

// Pathways returns every pathway with its gene set, ordered by ID
func (s *sqliteStore) Pathways(ctx context.Context) ([]store.Pathway, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT p.id, COALESCE(p.name, ''), g.gene
FROM pathways p
LEFT JOIN pathway_genes g ON g.pathway_id = p.id
ORDER BY p.id, g.position;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Pathway
	for rows.Next() {
		var (
			id, name string
			gene     sql.NullString
		)
		if err := rows.Scan(&id, &name, &gene); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, store.Pathway{ID: id, Name: name})
		}
		if gene.Valid {
			last := &out[len(out)-1]
			last.Genes = append(last.Genes, gene.String)
		}
	}
	return out, rows.Err()
}

// PathwayCount returns the number of stored pathways
func (s *sqliteStore) PathwayCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pathways`).Scan(&n)
	return n, err
}

// UpsertTerms writes ontology terms in a single transaction
func (s *sqliteStore) UpsertTerms(ctx context.Context, terms []store.Term) error {
	if len(terms) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	termStmt, err := tx.PrepareContext(ctx, `
INSERT INTO go_terms (id, name, namespace, obsolete)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name=excluded.name,
	namespace=excluded.namespace,
	obsolete=excluded.obsolete;
`)
	if err != nil {
		return err
	}
	defer termStmt.Close()

	altStmt, err := tx.PrepareContext(ctx, `
INSERT INTO go_alt_ids (alt_id, term_id) VALUES (?, ?)
ON CONFLICT(alt_id) DO UPDATE SET term_id=excluded.term_id;
`)
	if err != nil {
		return err
	}
	defer altStmt.Close()

	for _, t := range terms {
		if t.ID == "" {
			continue
		}
		obsolete := 0
		if t.Obsolete {
			obsolete = 1
		}
		if _, err := termStmt.ExecContext(ctx, t.ID, t.Name, t.Namespace, obsolete); err != nil {
			return err
		}
		for _, alt := range t.AltIDs {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				continue
			}
			if _, err := altStmt.ExecContext(ctx, alt, t.ID); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Terms returns a read view over the ontology tables
func (s *sqliteStore) Terms() store.TermView {
	return termView{db: s.db}
}

type termView struct {
	db *sql.DB
}

func (v termView) Lookup(ctx context.Context, id string) (store.Term, bool, error) {
	const query = `
SELECT t.id, t.name, t.namespace, t.obsolete
FROM go_terms t
WHERE t.id = ?
UNION ALL
SELECT t.id, t.name, t.namespace, t.obsolete
FROM go_alt_ids a
JOIN go_terms t ON t.id = a.term_id
WHERE a.alt_id = ?
LIMIT 1;
`
	var (
		t        store.Term
		obsolete int
	)
	err := v.db.QueryRowContext(ctx, query, id, id).Scan(&t.ID, &t.Name, &t.Namespace, &obsolete)
	if err == sql.ErrNoRows {
		return store.Term{}, false, nil
	}
	if err != nil {
		return store.Term{}, false, err
	}
	t.Obsolete = obsolete != 0

	alts, err := v.altIDs(ctx, t.ID)
	if err != nil {
		return store.Term{}, false, err
	}
	t.AltIDs = alts
	return t, true, nil
}

func (v termView) altIDs(ctx context.Context, termID string) ([]string, error) {
	rows, err := v.db.QueryContext(ctx, `SELECT alt_id FROM go_alt_ids WHERE term_id = ? ORDER BY alt_id`, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var alt string
		if err := rows.Scan(&alt); err != nil {
			return nil, err
		}
		out = append(out, alt)
	}
	return out, rows.Err()
}

func (v termView) Count(ctx context.Context) (int, error) {
	var n int
	err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM go_terms`).Scan(&n)
	return n, err
}
