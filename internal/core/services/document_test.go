package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

func TestDocumentService(t *testing.T) {
	ctx := context.Background()
	svc := NewDocumentService(&fakeStore{docs: rankingCorpus()})

	t.Run("get returns document", func(t *testing.T) {
		doc, err := svc.Get(ctx, "mcp-security")
		require.NoError(t, err)
		assert.Equal(t, "Security Best Practices", doc.Title)
	})

	t.Run("get unknown id wraps ErrNotFound", func(t *testing.T) {
		_, err := svc.Get(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list preserves order", func(t *testing.T) {
		docs, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "mcp-overview", docs[0].ID)
	})

	t.Run("categories are distinct", func(t *testing.T) {
		cats, err := svc.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"specification", "guides"}, cats)
	})
}
