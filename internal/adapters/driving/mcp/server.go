package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/deepwiki-mcp/internal/connectors/github"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for the documentation corpus and repository
// tools.
type Server struct {
	ports        *Ports
	verifier     TokenVerifier
	allowedUsers map[string]bool
	newRepo      repoClientFactory
	log          *logger.Logger
	server       *mcp.Server
}

// NewServer creates the MCP server. allowedUsers gates raw file
// content; nil means every authenticated user is allowed.
func NewServer(ports *Ports, verifier TokenVerifier, allowedUsers map[string]bool, log *logger.Logger) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if verifier == nil {
		return nil, fmt.Errorf("token verifier is required")
	}

	impl := &mcp.Implementation{
		Name:    "deepwiki",
		Version: Version,
	}

	s := &Server{
		ports:        ports,
		verifier:     verifier,
		allowedUsers: allowedUsers,
		log:          log.Named("mcp"),
		server:       mcp.NewServer(impl, nil),
		newRepo: func(ctx context.Context, accessToken string) RepoClient {
			return github.NewClient(ctx, accessToken)
		},
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Handler returns the HTTP handler serving the MCP transport, wrapped
// in bearer-token authentication.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
	return s.withAuth(streamable)
}

// withAuth verifies the bearer token and attaches the session to the
// request context. Tool handlers see the context through the SDK.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		props, err := s.verifier.VerifyToken(token)
		if err != nil {
			s.log.Debug("bearer token rejected", "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		session := &Session{
			Props:        *props,
			GitHub:       s.newRepo(r.Context(), props.AccessToken),
			CanReadFiles: s.allowedUsers == nil || s.allowedUsers[strings.ToLower(props.Login)],
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}
