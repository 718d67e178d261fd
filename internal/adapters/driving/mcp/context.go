package mcp

import (
	"context"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// Session is the per-request authenticated state the tool handlers
// read. It is built once per request, after token verification; the
// file-access decision is made here, not re-derived per tool call.
type Session struct {
	// Props is the verified identity behind the bearer token.
	Props domain.AuthorizedProps

	// GitHub calls the API with this session's upstream token.
	GitHub RepoClient

	// CanReadFiles reports whether this login may read raw repository
	// file contents.
	CanReadFiles bool
}

// contextKey is a private type so context values cannot collide.
type contextKey struct{}

// withSession stores the session in the context.
func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// sessionFromContext returns the session, or nil outside an
// authenticated request.
func sessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
