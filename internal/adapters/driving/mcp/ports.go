package mcp

import (
	"context"

	"github.com/custodia-labs/deepwiki-mcp/internal/connectors/github"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the MCP server needs.
// A single injection point keeps wiring in one place.
type Ports struct {
	// Search provides keyword search over the corpus.
	Search driving.SearchService

	// Document provides corpus document access.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

// TokenVerifier authenticates a bearer token and returns the identity
// it carries.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.AuthorizedProps, error)
}

// RepoClient is the slice of the GitHub connector the tools use. Each
// session gets its own client carrying that user's token.
type RepoClient interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	MarkdownTree(ctx context.Context, owner, repo string) ([]string, error)
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
	SearchRepositories(ctx context.Context, query string, limit int) ([]github.Repository, error)
}

// repoClientFactory builds a RepoClient for an upstream access token.
type repoClientFactory func(ctx context.Context, accessToken string) RepoClient
