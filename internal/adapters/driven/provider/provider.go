// Package provider implements the authorization-server half of the MCP
// OAuth flow: it issues single-use authorization codes once the
// upstream identity provider has vouched for a user, exchanges those
// codes for signed session tokens, and verifies session tokens on
// every MCP request.
package provider

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

const (
	// CodeTTL is how long an authorization code stays exchangeable.
	CodeTTL = 10 * time.Minute

	// TokenTTL is how long a session token stays valid.
	TokenTTL = 24 * time.Hour
)

// Provider issues and verifies MCP session credentials.
type Provider struct {
	storage    Storage
	signingKey []byte
	issuer     string
	log        *logger.Logger

	// now is swapped in tests to exercise expiry.
	now func() time.Time
}

// New creates a Provider. The signing key authenticates every session
// token; issuer is the externally visible base URL of this server.
func New(storage Storage, signingKey []byte, issuer string, log *logger.Logger) (*Provider, error) {
	if len(signingKey) < 32 {
		return nil, fmt.Errorf("signing key must be at least 32 bytes, got %d", len(signingKey))
	}
	return &Provider{
		storage:    storage,
		signingKey: signingKey,
		issuer:     issuer,
		log:        log.Named("provider"),
		now:        time.Now,
	}, nil
}

// sessionClaims carries the authorized identity inside a session token.
// The upstream access token rides along so MCP tools can call the
// upstream API on the user's behalf.
type sessionClaims struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

// CompleteAuthorization records that props completed the pending
// authorization and returns the single-use code to hand back to the
// MCP client. The code expires after CodeTTL.
func (p *Provider) CompleteAuthorization(pending domain.PendingAuthorization, props domain.AuthorizedProps) (string, error) {
	if pending.ClientID == "" {
		return "", fmt.Errorf("complete authorization: %w: missing client_id", domain.ErrInvalidInput)
	}

	code := uuid.NewString()
	if err := p.storage.SaveCode(&authCode{
		code:      code,
		pending:   pending,
		props:     props,
		expiresAt: p.now().Add(CodeTTL),
	}); err != nil {
		return "", fmt.Errorf("saving authorization code: %w", err)
	}

	p.log.Info("authorization completed",
		"client_id", pending.ClientID,
		"login", props.Login,
	)
	return code, nil
}

// TokenResponse is the token endpoint's success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// ExchangeAuthorizationCode trades a code for a session token. The code
// is consumed even when a later step fails; a client that loses the
// response restarts the flow. When the client sent a PKCE challenge at
// authorization time, codeVerifier must match it.
func (p *Provider) ExchangeAuthorizationCode(code, clientID, codeVerifier string) (*TokenResponse, error) {
	ac, err := p.storage.ConsumeCode(code, p.now())
	if err != nil {
		return nil, fmt.Errorf("consuming authorization code: %w", err)
	}

	if clientID != "" && clientID != ac.pending.ClientID {
		return nil, fmt.Errorf("exchange: %w: code was issued to a different client", domain.ErrUnauthorized)
	}

	if ac.pending.CodeChallenge != "" {
		if !verifyPKCE(ac.pending.CodeChallenge, ac.pending.CodeChallengeMethod, codeVerifier) {
			return nil, fmt.Errorf("exchange: %w: code verifier mismatch", domain.ErrUnauthorized)
		}
	}

	token, err := p.signSessionToken(ac.pending.ClientID, ac.props)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	p.log.Info("session token issued",
		"client_id", ac.pending.ClientID,
		"login", ac.props.Login,
	)
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(TokenTTL.Seconds()),
	}, nil
}

// signSessionToken packs props into an HS256 JWT. The token is signed,
// not encrypted; it must only travel over TLS.
func (p *Provider) signSessionToken(clientID string, props domain.AuthorizedProps) (string, error) {
	now := p.now()
	claims := sessionClaims{
		Login:       props.Login,
		Name:        props.Name,
		Email:       props.Email,
		AccessToken: props.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   props.Login,
			Audience:  jwt.ClaimStrings{clientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
}

// VerifyToken checks a session token's signature and expiry and returns
// the identity it carries. Any failure maps to domain.ErrUnauthorized;
// claims from an unverified token are never returned.
func (p *Provider) VerifyToken(token string) (*domain.AuthorizedProps, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return p.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("verify session token: %w", domain.ErrUnauthorized)
	}

	return &domain.AuthorizedProps{
		Login:       claims.Login,
		Name:        claims.Name,
		Email:       claims.Email,
		AccessToken: claims.AccessToken,
	}, nil
}

// RegisterClient stores a client registration, generating an id when
// the caller supplies none.
func (p *Provider) RegisterClient(name string, redirectURIs []string) (*RegisteredClient, error) {
	client := &RegisteredClient{
		ClientID:                uuid.NewString(),
		ClientName:              name,
		RedirectURIs:            redirectURIs,
		TokenEndpointAuthMethod: "none",
		CreatedAt:               p.now(),
	}
	if err := p.storage.SaveClient(client); err != nil {
		return nil, fmt.Errorf("storing client registration: %w", err)
	}
	p.log.Info("client registered", "client_id", client.ClientID, "name", name)
	return client, nil
}

// Issuer returns the configured issuer base URL.
func (p *Provider) Issuer() string {
	return p.issuer
}

// verifyPKCE checks an S256 (or legacy plain) code verifier against the
// stored challenge in constant time.
func verifyPKCE(challenge, method, verifier string) bool {
	if verifier == "" {
		return false
	}
	expected := verifier
	if method == "" || method == "S256" {
		sum := sha256.Sum256([]byte(verifier))
		expected = base64.RawURLEncoding.EncodeToString(sum[:])
	}
	return subtle.ConstantTimeCompare([]byte(challenge), []byte(expected)) == 1
}
