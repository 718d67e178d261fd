package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deepwiki-mcp/internal/config"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Addr:               ":0",
		BaseURL:            "https://deepwiki.example.com",
		GitHubClientID:     "gh-client",
		GitHubClientSecret: "gh-secret",
		CookieKey:          "0123456789abcdef0123456789abcdef",
	}
}

func TestBuildRouter(t *testing.T) {
	router, cleanup, err := buildRouter(testConfig(), logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("serves authorization server metadata", func(t *testing.T) {
		rec := get("/.well-known/oauth-authorization-server")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "https://deepwiki.example.com/authorize")
	})

	t.Run("debug endpoint hides secrets", func(t *testing.T) {
		rec := get("/debug/oauth-config")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "gh-secret")
	})

	t.Run("authorize without client_id is 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get("/authorize").Code)
	})

	t.Run("mcp endpoints require a bearer token", func(t *testing.T) {
		for _, path := range []string{"/mcp", "/sse"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("token endpoint rejects unknown codes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/token", nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
