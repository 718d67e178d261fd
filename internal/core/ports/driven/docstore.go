package driven

import (
	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// DocumentStore holds the fixed documentation corpus.
// Implementations are immutable after construction and therefore safe
// for unlimited concurrent reads. Absence is a normal not-found result,
// never an infrastructure failure, so no method takes a context.
type DocumentStore interface {
	// GetAll returns every document in seed order.
	GetAll() []domain.Document

	// GetByID retrieves a document by ID.
	// Returns domain.ErrNotFound when the ID is unknown.
	GetByID(id string) (*domain.Document, error)

	// GetByCategory returns documents whose category matches exactly,
	// in seed order.
	GetByCategory(category string) []domain.Document

	// Categories returns the distinct category strings in first-seen
	// order.
	Categories() []string
}
