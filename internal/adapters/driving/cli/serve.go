package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepwiki-mcp/internal/adapters/driven/docstore"
	"github.com/custodia-labs/deepwiki-mcp/internal/adapters/driven/provider"
	"github.com/custodia-labs/deepwiki-mcp/internal/adapters/driving/authflow"
	mcpserver "github.com/custodia-labs/deepwiki-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/deepwiki-mcp/internal/config"
	"github.com/custodia-labs/deepwiki-mcp/internal/connectors/github"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/services"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

// cleanupInterval is how often expired authorization codes are purged.
const cleanupInterval = 5 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over HTTP",
	Long: `Start the remote MCP server.

The server exposes the MCP transport on /mcp (and /sse for legacy
clients), the OAuth surface on /authorize, /callback, /token and
/register, and authorization server metadata under /.well-known.

Configuration comes from a YAML file and DEEPWIKI_* environment
variables; secrets only from the environment.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "path to the YAML config file")
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("getting config flag: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	router, cleanup, err := buildRouter(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	log.Info("server listening", "addr", cfg.Addr, "base_url", cfg.BaseURL)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// buildRouter assembles every adapter behind one chi router. The
// returned cleanup stops background maintenance.
func buildRouter(cfg *config.Config, log *logger.Logger) (chi.Router, func(), error) {
	store, err := docstore.NewSeeded()
	if err != nil {
		return nil, nil, fmt.Errorf("loading corpus: %w", err)
	}

	searchSvc := services.NewSearchService(store, log)
	documentSvc := services.NewDocumentService(store)

	storage := provider.NewMemoryStorage()
	stopCleanup := storage.StartCleanup(cleanupInterval)

	prov, err := provider.New(storage, []byte(cfg.CookieKey), cfg.BaseURL, log)
	if err != nil {
		stopCleanup()
		return nil, nil, fmt.Errorf("building provider: %w", err)
	}

	flow := authflow.NewHandler(authflow.Options{
		GitHubClientID:     cfg.GitHubClientID,
		GitHubClientSecret: cfg.GitHubClientSecret,
		CallbackURL:        cfg.CallbackURL(),
	}, authflow.NewApprovals([]byte(cfg.CookieKey)), prov, github.IdentityService{}, log)

	mcpSrv, err := mcpserver.NewServer(&mcpserver.Ports{
		Search:   searchSvc,
		Document: documentSvc,
	}, prov, cfg.AllowedUserSet(), log)
	if err != nil {
		stopCleanup()
		return nil, nil, fmt.Errorf("building MCP server: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	}))

	flow.Routes(r)
	r.Method(http.MethodPost, "/token", prov.TokenHandler())
	r.Method(http.MethodPost, "/register", prov.RegisterHandler())
	r.Method(http.MethodGet, "/.well-known/oauth-authorization-server", prov.MetadataHandler())

	mcpHandler := mcpSrv.Handler()
	r.Handle("/mcp", mcpHandler)
	// Alias for clients still speaking the SSE-era endpoint.
	r.Handle("/sse", mcpHandler)

	return r, stopCleanup, nil
}
