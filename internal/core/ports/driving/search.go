package driving

import (
	"context"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// SearchService provides keyword search over the documentation corpus.
type SearchService interface {
	// Search tokenizes the query, filters and scores the corpus, and
	// returns at most opts.Limit documents ordered by relevance.
	// An empty query matches nothing and yields an empty slice.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Document, error)
}
