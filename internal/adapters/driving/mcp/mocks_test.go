package mcp

import (
	"context"

	"github.com/custodia-labs/deepwiki-mcp/internal/connectors/github"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	docs        []domain.Document
	gotQuery    string
	gotVersion  string
	err         error
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.Document, error) {
	m.gotQuery = query
	m.gotVersion = opts.Version
	return m.docs, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs []domain.Document
	err  error
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) ListByCategory(_ context.Context, category string) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range m.docs {
		if d.Metadata.Category == category {
			out = append(out, d)
		}
	}
	return out, m.err
}

func (m *mockDocumentService) Categories(_ context.Context) ([]string, error) {
	var cats []string
	seen := map[string]bool{}
	for _, d := range m.docs {
		if c := d.Metadata.Category; c != "" && !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats, m.err
}

// mockRepoClient is a canned RepoClient.
type mockRepoClient struct {
	repo     *github.Repository
	readme   string
	tree     []string
	files    map[string]string
	searched []github.Repository

	repoErr   error
	readmeErr error
	treeErr   error
	fileErr   error
	searchErr error

	gotSearchQuery string
}

func (m *mockRepoClient) GetRepository(context.Context, string, string) (*github.Repository, error) {
	return m.repo, m.repoErr
}

func (m *mockRepoClient) GetReadme(context.Context, string, string) (string, error) {
	return m.readme, m.readmeErr
}

func (m *mockRepoClient) MarkdownTree(context.Context, string, string) ([]string, error) {
	return m.tree, m.treeErr
}

func (m *mockRepoClient) GetFileContent(_ context.Context, _, _, path string) (string, error) {
	if m.fileErr != nil {
		return "", m.fileErr
	}
	content, ok := m.files[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return content, nil
}

func (m *mockRepoClient) SearchRepositories(_ context.Context, query string, _ int) ([]github.Repository, error) {
	m.gotSearchQuery = query
	return m.searched, m.searchErr
}

// mockVerifier is a canned TokenVerifier.
type mockVerifier struct {
	props    *domain.AuthorizedProps
	err      error
	gotToken string
}

func (m *mockVerifier) VerifyToken(token string) (*domain.AuthorizedProps, error) {
	m.gotToken = token
	return m.props, m.err
}
