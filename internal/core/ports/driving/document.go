package driving

import (
	"context"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// DocumentService exposes read access to the documentation corpus.
type DocumentService interface {
	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound when the ID is unknown.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns every document in seed order.
	List(ctx context.Context) ([]domain.Document, error)

	// ListByCategory returns documents in the given category.
	ListByCategory(ctx context.Context, category string) ([]domain.Document, error)

	// Categories returns the distinct category strings.
	Categories(ctx context.Context) ([]string, error)
}
