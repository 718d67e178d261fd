package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

func newSearchFixture(docs []domain.Document) *SearchService {
	return NewSearchService(&fakeStore{docs: docs}, logger.NewNop())
}

func rankingCorpus() []domain.Document {
	return []domain.Document{
		{
			ID:      "mcp-overview",
			Title:   "Model Context Protocol Overview",
			Content: "MCP standardizes how applications provide context to models.",
			Metadata: domain.DocumentMetadata{
				Version: "2025-06-18", Category: "specification",
				Tags: []string{"protocol", "overview"},
			},
		},
		{
			ID:      "mcp-security",
			Title:   "Security Best Practices",
			Content: "Security starts with user consent. Never log secrets.",
			Metadata: domain.DocumentMetadata{
				Version: "2025-06-18", Category: "guides",
				Tags: []string{"security", "consent"},
			},
		},
		{
			ID:      "mcp-examples",
			Title:   "Example Servers",
			Content: "Review each server's security posture before granting credentials.",
			Metadata: domain.DocumentMetadata{
				Version: "2025-03-26", Category: "guides",
				Tags: []string{"examples"},
			},
		},
	}
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("title match outranks body match", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		results, err := svc.Search(ctx, "security", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "mcp-security", results[0].ID)
		assert.Equal(t, "mcp-examples", results[1].ID)
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		results, err := svc.Search(ctx, "", domain.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("whitespace-only query matches nothing", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		results, err := svc.Search(ctx, "  \t\n ", domain.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("repeated calls are deterministic", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		first, err := svc.Search(ctx, "security consent", domain.SearchOptions{})
		require.NoError(t, err)
		for range 5 {
			again, err := svc.Search(ctx, "security consent", domain.SearchOptions{})
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("version filter is exact", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		results, err := svc.Search(ctx, "security", domain.SearchOptions{Version: "2025-03-26"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "mcp-examples", results[0].ID)
	})

	t.Run("unknown version yields nothing", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		results, err := svc.Search(ctx, "security", domain.SearchOptions{Version: "1999-01-01"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("category substring qualifies a candidate", func(t *testing.T) {
		svc := newSearchFixture(rankingCorpus())

		// "guides" appears in no title, content or tag.
		results, err := svc.Search(ctx, "guides", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		// Neither scores, so store order decides.
		assert.Equal(t, "mcp-security", results[0].ID)
		assert.Equal(t, "mcp-examples", results[1].ID)
	})

	t.Run("at most ten results", func(t *testing.T) {
		docs := make([]domain.Document, 25)
		for i := range docs {
			docs[i] = domain.Document{
				ID:      fmt.Sprintf("doc-%02d", i),
				Title:   "widget",
				Content: strings.Repeat("widget ", i+1),
			}
		}
		svc := newSearchFixture(docs)

		results, err := svc.Search(ctx, "widget", domain.SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, results, DefaultLimit)
		// Highest occurrence count first.
		assert.Equal(t, "doc-24", results[0].ID)
	})

	t.Run("ties resolve by store order", func(t *testing.T) {
		docs := []domain.Document{
			{ID: "first", Title: "same title", Content: "same body"},
			{ID: "second", Title: "same title", Content: "same body"},
		}
		svc := newSearchFixture(docs)

		results, err := svc.Search(ctx, "same", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "first", results[0].ID)
		assert.Equal(t, "second", results[1].ID)
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		docs := []domain.Document{
			{ID: "cpp", Title: "C++ Primer", Content: "c++ templates and c++ lambdas"},
			{ID: "c", Title: "C Primer", Content: "plain c only"},
		}
		svc := newSearchFixture(docs)

		results, err := svc.Search(ctx, "c++", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "cpp", results[0].ID)
	})

	t.Run("scores combine title, tags and occurrences", func(t *testing.T) {
		docs := []domain.Document{
			{
				ID:    "tagged",
				Title: "unrelated",
				Metadata: domain.DocumentMetadata{
					Tags: []string{"kernel"},
				},
			},
			{ID: "body", Title: "other", Content: "kernel kernel kernel kernel kernel kernel"},
		}
		svc := newSearchFixture(docs)

		results, err := svc.Search(ctx, "kernel", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		// Six body occurrences beat one tag hit worth five.
		assert.Equal(t, "body", results[0].ID)
	})
}

func TestSearchService_SeededScenario(t *testing.T) {
	// End-to-end property over a corpus shaped like the embedded seed:
	// a query for "security" must rank the page with the term in its
	// title above pages mentioning it only in passing.
	svc := newSearchFixture(rankingCorpus())

	results, err := svc.Search(context.Background(), "security", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "mcp-security", results[0].ID)
}
