package authflow

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/deepwiki-mcp/internal/adapters/driven/oauth"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

// Authorizer completes an authorization once the upstream provider has
// vouched for the user, returning the code to hand to the MCP client.
type Authorizer interface {
	CompleteAuthorization(pending domain.PendingAuthorization, props domain.AuthorizedProps) (string, error)
}

// IdentityClient resolves the account behind an upstream access token.
type IdentityClient interface {
	AuthenticatedUser(ctx context.Context, accessToken string) (login, name, email string, err error)
}

// exchangeFunc matches oauth.ExchangeCode; swapped in tests.
type exchangeFunc func(ctx context.Context, tokenURL, clientID, clientSecret, code, redirectURI string) (string, *oauth.ExchangeError)

// Options configure the OAuth surface.
type Options struct {
	// GitHubClientID and GitHubClientSecret identify the upstream OAuth
	// app.
	GitHubClientID     string
	GitHubClientSecret string

	// AuthorizeURL and TokenURL are the upstream endpoints. Empty values
	// default to github.com.
	AuthorizeURL string
	TokenURL     string

	// CallbackURL is this server's externally visible callback.
	CallbackURL string

	// Scope is the upstream scope string requested on every flow.
	Scope string
}

// Handler serves the /authorize consent flow and the upstream
// /callback.
type Handler struct {
	opts      Options
	approvals *Approvals
	auth      Authorizer
	identity  IdentityClient
	exchange  exchangeFunc
	log       *logger.Logger
}

// NewHandler wires the OAuth surface.
func NewHandler(opts Options, approvals *Approvals, auth Authorizer, identity IdentityClient, log *logger.Logger) *Handler {
	if opts.AuthorizeURL == "" {
		opts.AuthorizeURL = "https://github.com/login/oauth/authorize"
	}
	if opts.TokenURL == "" {
		opts.TokenURL = "https://github.com/login/oauth/access_token"
	}
	if opts.Scope == "" {
		opts.Scope = "read:user user:email"
	}
	return &Handler{
		opts:      opts,
		approvals: approvals,
		auth:      auth,
		identity:  identity,
		exchange:  oauth.ExchangeCode,
		log:       log.Named("authflow"),
	}
}

// Routes registers the OAuth surface on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/authorize", h.handleAuthorize)
	r.Post("/authorize", h.handleApprove)
	r.Get("/callback", h.handleCallback)
	r.Get("/debug/oauth-config", h.handleDebugConfig)
}

// handleAuthorize starts a flow: previously approved clients are sent
// straight upstream, everyone else sees the consent screen.
func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pending := domain.PendingAuthorization{
		ClientID:            q.Get("client_id"),
		RedirectURI:         q.Get("redirect_uri"),
		ResponseType:        q.Get("response_type"),
		State:               q.Get("state"),
		CodeChallenge:       q.Get("code_challenge"),
		CodeChallengeMethod: q.Get("code_challenge_method"),
	}
	if scope := q.Get("scope"); scope != "" {
		pending.Scope = strings.Fields(scope)
	}

	if pending.ClientID == "" {
		http.Error(w, "missing client_id", http.StatusBadRequest)
		return
	}

	state, err := EncodeState(pending)
	if err != nil {
		h.log.Error("encoding state failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.approvals.IsApproved(r, pending.ClientID) {
		h.redirectUpstream(w, r, state)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, consentHTML(pending.ClientID, state))
}

// handleApprove records consent and forwards to the upstream provider.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	state := r.PostForm.Get("state")
	pending, err := DecodeState(state)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cookie, err := h.approvals.RecordApproval(r, pending.ClientID)
	if err != nil {
		h.log.Error("recording approval failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)

	h.redirectUpstream(w, r, state)
}

// redirectUpstream 302s the browser to the upstream authorize endpoint
// with our encoded state.
func (h *Handler) redirectUpstream(w http.ResponseWriter, r *http.Request, state string) {
	target := oauth.BuildAuthorizeURL(oauth.AuthorizeParams{
		AuthorizeURL: h.opts.AuthorizeURL,
		ClientID:     h.opts.GitHubClientID,
		RedirectURI:  h.opts.CallbackURL,
		Scope:        h.opts.Scope,
		State:        state,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

// handleCallback receives the upstream redirect, exchanges the code,
// resolves the identity and sends the MCP client its own code.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	pending, err := DecodeState(q.Get("state"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, exchErr := h.exchange(r.Context(), h.opts.TokenURL,
		h.opts.GitHubClientID, h.opts.GitHubClientSecret, code, h.opts.CallbackURL)
	if exchErr != nil {
		h.log.Warn("upstream token exchange failed",
			"status", exchErr.Status, "description", exchErr.Description)
		http.Error(w, "upstream authorization failed", exchErr.Status)
		return
	}

	login, name, email, err := h.identity.AuthenticatedUser(r.Context(), token)
	if err != nil {
		h.log.Error("fetching upstream identity failed", "error", err)
		http.Error(w, "could not resolve upstream identity", http.StatusInternalServerError)
		return
	}

	grantCode, err := h.auth.CompleteAuthorization(pending, domain.AuthorizedProps{
		Login:       login,
		Name:        name,
		Email:       email,
		AccessToken: token,
	})
	if err != nil {
		h.log.Error("completing authorization failed", "error", err, "client_id", pending.ClientID)
		http.Error(w, "authorization could not be completed", http.StatusInternalServerError)
		return
	}

	redirect, err := clientRedirectURL(pending, grantCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Info("authorization flow completed", "client_id", pending.ClientID, "login", login)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// clientRedirectURL appends our code and the client's original state to
// its redirect URI.
func clientRedirectURL(pending domain.PendingAuthorization, code string) (string, error) {
	if pending.RedirectURI == "" {
		return "", fmt.Errorf("pending authorization has no redirect_uri")
	}
	u, err := url.Parse(pending.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect_uri")
	}
	q := u.Query()
	q.Set("code", code)
	if pending.State != "" {
		q.Set("state", pending.State)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// handleDebugConfig reports whether the upstream OAuth app is
// configured. Booleans only, no secret values.
func (h *Handler) handleDebugConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"github_client_id_configured":     h.opts.GitHubClientID != "",
		"github_client_secret_configured": h.opts.GitHubClientSecret != "",
		"callback_url":                    h.opts.CallbackURL,
	})
}

func consentHTML(clientID, state string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>DeepWiki MCP - Authorization</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
            max-width: 480px;
        }
        h1 {
            color: #333F50;
            margin: 0 0 8px 0;
            font-size: 24px;
            font-weight: 600;
        }
        p {
            color: #7B8088;
            margin: 0 0 24px 0;
            font-size: 16px;
        }
        .client {
            font-family: ui-monospace, monospace;
            color: #333F50;
        }
        button {
            background: #6675FF;
            color: white;
            border: none;
            border-radius: 8px;
            padding: 12px 32px;
            font-size: 16px;
            font-weight: 600;
            cursor: pointer;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Authorize access</h1>
        <p>The MCP client <span class="client">%s</span> wants to search
        and read documentation on your behalf, signed in with your
        GitHub account.</p>
        <form method="POST" action="/authorize">
            <input type="hidden" name="state" value="%s">
            <button type="submit">Continue with GitHub</button>
        </form>
    </div>
</body>
</html>`, html.EscapeString(clientID), html.EscapeString(state))
}
