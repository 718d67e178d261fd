package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes read access to the documentation corpus.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a new document service over the given store.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	doc, err := s.store.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", id, err)
	}
	return doc, nil
}

// List returns every document in seed order.
func (s *DocumentService) List(_ context.Context) ([]domain.Document, error) {
	return s.store.GetAll(), nil
}

// ListByCategory returns documents in the given category.
func (s *DocumentService) ListByCategory(_ context.Context, category string) ([]domain.Document, error) {
	return s.store.GetByCategory(category), nil
}

// Categories returns the distinct category strings.
func (s *DocumentService) Categories(_ context.Context) ([]string, error) {
	return s.store.Categories(), nil
}
