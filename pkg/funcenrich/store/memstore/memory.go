package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	pathways map[string]store.Pathway
	terms    map[string]store.Term
	altIDs   map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		pathways: make(map[string]store.Pathway),
		terms:    make(map[string]store.Term),
		altIDs:   make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertPathway inserts or replaces a pathway keyed by ID. An empty name
// keeps the stored one.
func (s *Store) UpsertPathway(ctx context.Context, p store.Pathway) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		return nil
	}
	if prev, ok := s.pathways[p.ID]; ok && p.Name == "" {
		p.Name = prev.Name
	}
	p.Genes = store.UniqueStrings(p.Genes)
	s.pathways[p.ID] = p
	return nil
}

// Pathways returns all pathways ordered by ID.
func (s *Store) Pathways(ctx context.Context) ([]store.Pathway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Pathway, 0, len(s.pathways))
	for _, p := range s.pathways {
		out = append(out, copyPathway(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PathwayCount returns the number of stored pathways.
func (s *Store) PathwayCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pathways), nil
}

// UpsertTerms inserts or replaces ontology terms.
func (s *Store) UpsertTerms(ctx context.Context, terms []store.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range terms {
		if t.ID == "" {
			continue
		}
		t.AltIDs = store.UniqueStrings(t.AltIDs)
		s.terms[t.ID] = t
		for _, alt := range t.AltIDs {
			s.altIDs[alt] = t.ID
		}
	}
	return nil
}

// Terms implements store.Store.
func (s *Store) Terms() store.TermView {
	return termView{s: s}
}

type termView struct {
	s *Store
}

func (v termView) Lookup(ctx context.Context, id string) (store.Term, bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	if t, ok := v.s.terms[id]; ok {
		return t, true, nil
	}
	if primary, ok := v.s.altIDs[id]; ok {
		t, ok := v.s.terms[primary]
		return t, ok, nil
	}
	return store.Term{}, false, nil
}

func (v termView) Count(ctx context.Context) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return len(v.s.terms), nil
}

func copyPathway(p store.Pathway) store.Pathway {
	p.Genes = append([]string(nil), p.Genes...)
	return p
}
