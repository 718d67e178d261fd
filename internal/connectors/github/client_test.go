package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// newStubClient points a Client at a local stub of the GitHub API.
func newStubClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ghc := gh.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	ghc.BaseURL = base
	return newClientWithGH(ghc)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func TestGetRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the response", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/golang/go", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{
				"full_name": "golang/go",
				"description": "The Go programming language",
				"default_branch": "master",
				"language": "Go",
				"stargazers_count": 120000,
				"topics": ["go", "language"],
				"html_url": "https://github.com/golang/go"
			}`)
		})

		repo, err := newStubClient(t, mux).GetRepository(ctx, "golang", "go")
		require.NoError(t, err)
		assert.Equal(t, "golang/go", repo.FullName)
		assert.Equal(t, "master", repo.DefaultBranch)
		assert.Equal(t, 120000, repo.Stars)
		assert.Equal(t, []string{"go", "language"}, repo.Topics)
	})

	t.Run("404 maps to domain.ErrNotFound", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/nobody/nothing", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, `{"message": "Not Found"}`)
		})

		_, err := newStubClient(t, mux).GetRepository(ctx, "nobody", "nothing")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

func TestGetFileContent(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes base64 content", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("# Hello\n"))
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/o/r/contents/docs/hello.md", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, fmt.Sprintf(
				`{"type": "file", "encoding": "base64", "content": %q}`, encoded))
		})

		content, err := newStubClient(t, mux).GetFileContent(ctx, "o", "r", "docs/hello.md")
		require.NoError(t, err)
		assert.Equal(t, "# Hello\n", content)
	})

	t.Run("missing file maps to domain.ErrNotFound", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/o/r/contents/nope.md", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, `{"message": "Not Found"}`)
		})

		_, err := newStubClient(t, mux).GetFileContent(ctx, "o", "r", "nope.md")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMarkdownTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"full_name": "o/r", "default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/o/r/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"tree": [
			{"path": "README.md", "type": "blob"},
			{"path": "docs", "type": "tree"},
			{"path": "docs/guide.MD", "type": "blob"},
			{"path": "docs/page.mdx", "type": "blob"},
			{"path": "main.go", "type": "blob"},
			{"path": "zz/first.md", "type": "blob"}
		]}`)
	})

	paths, err := newStubClient(t, mux).MarkdownTree(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "docs/guide.MD", "docs/page.mdx", "zz/first.md"}, paths)
}

func TestAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"login": "octocat", "name": "The Octocat", "email": "octo@example.com"}`)
	})

	login, name, email, err := newStubClient(t, mux).AuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
	assert.Equal(t, "The Octocat", name)
	assert.Equal(t, "octo@example.com", email)
}

func TestSearchRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mcp server", r.URL.Query().Get("q"))
		writeJSON(w, `{"total_count": 2, "items": [
			{"full_name": "modelcontextprotocol/servers", "stargazers_count": 500},
			{"full_name": "example/mcp-demo", "stargazers_count": 10}
		]}`)
	})

	repos, err := newStubClient(t, mux).SearchRepositories(context.Background(), "mcp server", 5)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "modelcontextprotocol/servers", repos[0].FullName)
}

func TestRateLimiter(t *testing.T) {
	t.Run("tracks response headers", func(t *testing.T) {
		rl := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set("X-RateLimit-Remaining", "42")
		resp.Header.Set("X-RateLimit-Limit", "5000")
		resp.Header.Set("X-RateLimit-Reset", "1700000000")

		rl.UpdateFromResponse(resp)

		assert.Equal(t, 42, rl.Remaining())
		assert.Equal(t, 5000, rl.Limit())
		assert.False(t, rl.ResetTime().IsZero())
	})

	t.Run("wait honours context cancellation", func(t *testing.T) {
		rl := NewRateLimiter()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// First token is free; the second forces a bucket wait which
		// must abort on the cancelled context.
		_ = rl.Wait(context.Background())
		err := rl.Wait(ctx)
		assert.Error(t, err)
	})
}

func TestErrorUnwrapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{404, domain.ErrNotFound},
		{401, domain.ErrUnauthorized},
		{403, domain.ErrForbidden},
		{429, domain.ErrRateLimited},
	}
	for _, tc := range cases {
		err := &APIError{StatusCode: tc.status, Message: "x"}
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}

	var rle error = &RateLimitError{}
	assert.True(t, errors.Is(rle, domain.ErrRateLimited))
}
