package provider

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// oauthError is the RFC 6749 error payload.
type oauthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func writeOAuthError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(oauthError{Error: code, Description: description})
}

// TokenHandler serves POST /token, exchanging an authorization code for
// a session token.
func (p *Provider) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "method not allowed")
			return
		}
		if err := r.ParseForm(); err != nil {
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
			return
		}

		if grant := r.PostForm.Get("grant_type"); grant != "authorization_code" {
			writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "only authorization_code is supported")
			return
		}
		code := r.PostForm.Get("code")
		if code == "" {
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "missing code")
			return
		}

		resp, err := p.ExchangeAuthorizationCode(code,
			r.PostForm.Get("client_id"), r.PostForm.Get("code_verifier"))
		if err != nil {
			p.log.Warn("token exchange rejected", "error", err)
			switch {
			case errors.Is(err, domain.ErrCodeConsumed):
				writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "authorization code already used")
			case errors.Is(err, domain.ErrCodeExpired):
				writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "authorization code expired")
			case errors.Is(err, domain.ErrNotFound):
				writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "unknown authorization code")
			case errors.Is(err, domain.ErrUnauthorized):
				writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "grant validation failed")
			default:
				writeOAuthError(w, http.StatusInternalServerError, "server_error", "token issuance failed")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

// registrationRequest is the RFC 7591 subset this server accepts.
type registrationRequest struct {
	ClientName   string   `json:"client_name"`
	RedirectURIs []string `json:"redirect_uris"`
}

// RegisterHandler serves POST /register for dynamic client
// registration. All registered clients are public.
func (p *Provider) RegisterHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeOAuthError(w, http.StatusMethodNotAllowed, "invalid_request", "method not allowed")
			return
		}

		var req registrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeOAuthError(w, http.StatusBadRequest, "invalid_client_metadata", "malformed registration body")
			return
		}

		client, err := p.RegisterClient(req.ClientName, req.RedirectURIs)
		if err != nil {
			p.log.Error("client registration failed", "error", err)
			writeOAuthError(w, http.StatusInternalServerError, "server_error", "registration failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(client)
	})
}

// serverMetadata is the RFC 8414 authorization server metadata.
type serverMetadata struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	RegistrationEndpoint              string   `json:"registration_endpoint"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
}

// MetadataHandler serves GET /.well-known/oauth-authorization-server.
func (p *Provider) MetadataHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		meta := serverMetadata{
			Issuer:                            p.issuer,
			AuthorizationEndpoint:             p.issuer + "/authorize",
			TokenEndpoint:                     p.issuer + "/token",
			RegistrationEndpoint:              p.issuer + "/register",
			ResponseTypesSupported:            []string{"code"},
			GrantTypesSupported:               []string{"authorization_code"},
			TokenEndpointAuthMethodsSupported: []string{"none"},
			CodeChallengeMethodsSupported:     []string{"S256"},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(meta)
	})
}
