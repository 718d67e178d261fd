package services

import (
	"fmt"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// fakeStore is a minimal in-memory DocumentStore for service tests.
type fakeStore struct {
	docs []domain.Document
}

func (f *fakeStore) GetAll() []domain.Document {
	return f.docs
}

func (f *fakeStore) GetByID(id string) (*domain.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			doc := f.docs[i]
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
}

func (f *fakeStore) GetByCategory(category string) []domain.Document {
	var out []domain.Document
	for _, d := range f.docs {
		if d.Metadata.Category == category {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeStore) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range f.docs {
		if c := d.Metadata.Category; c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
