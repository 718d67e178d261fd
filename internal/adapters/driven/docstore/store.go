// Package docstore provides the in-memory Document Store backing the
// search and fetch tools. The store is built once from a seed corpus
// and never mutated, so concurrent reads need no locking.
package docstore

import (
	"fmt"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is an immutable, ordered collection of documents.
type Store struct {
	docs       []domain.Document
	byID       map[string]int
	categories []string
}

// New creates a store from the given documents, preserving their order.
// Duplicate IDs are a construction error.
func New(docs []domain.Document) (*Store, error) {
	s := &Store{
		docs: make([]domain.Document, len(docs)),
		byID: make(map[string]int, len(docs)),
	}
	copy(s.docs, docs)

	seen := make(map[string]bool)
	for i, doc := range s.docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("document at index %d: %w: empty id", i, domain.ErrInvalidInput)
		}
		if _, dup := s.byID[doc.ID]; dup {
			return nil, fmt.Errorf("document %q: %w", doc.ID, domain.ErrAlreadyExists)
		}
		s.byID[doc.ID] = i

		if cat := doc.Metadata.Category; cat != "" && !seen[cat] {
			seen[cat] = true
			s.categories = append(s.categories, cat)
		}
	}

	return s, nil
}

// GetAll returns every document in seed order.
func (s *Store) GetAll() []domain.Document {
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// GetByID retrieves a document by ID.
func (s *Store) GetByID(id string) (*domain.Document, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	doc := s.docs[i]
	return &doc, nil
}

// GetByCategory returns documents whose category matches exactly, in
// seed order.
func (s *Store) GetByCategory(category string) []domain.Document {
	var out []domain.Document
	for _, doc := range s.docs {
		if doc.Metadata.Category == category {
			out = append(out, doc)
		}
	}
	return out
}

// Categories returns the distinct category strings in first-seen order.
func (s *Store) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	return len(s.docs)
}
