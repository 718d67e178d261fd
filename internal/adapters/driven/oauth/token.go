// Package oauth talks to the upstream identity provider: it builds
// authorization URLs and exchanges authorization codes for access
// tokens. It is the single boundary translating a code into a bearer
// credential; callers must treat a returned ExchangeError as terminal
// for that attempt, since codes are single-use.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds the token exchange round trip when the caller's
// context carries no earlier deadline.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an upstream error body is retained.
const maxErrorBody = 4 << 10

// ExchangeError describes a failed code exchange. Status preserves the
// upstream HTTP status when one was received, else 500. Description is
// safe to show to a client; it never contains credentials.
type ExchangeError struct {
	// Status is the HTTP status to surface.
	Status int

	// Description is a human-readable failure summary.
	Description string
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed (status %d): %s", e.Status, e.Description)
}

// AuthorizeParams configure BuildAuthorizeURL.
type AuthorizeParams struct {
	// AuthorizeURL is the upstream authorization endpoint.
	AuthorizeURL string

	// ClientID is the upstream OAuth app client id.
	ClientID string

	// RedirectURI is where the upstream sends the user back.
	RedirectURI string

	// Scope is the space-joined scope string.
	Scope string

	// State is the opaque state carried through the round trip.
	State string

	// Extra are additional query parameters. Empty values are omitted.
	Extra map[string]string
}

// BuildAuthorizeURL constructs the upstream authorization URL. It is a
// pure function: every parameter is URL-encoded and parameters with
// empty values are omitted.
func BuildAuthorizeURL(p AuthorizeParams) string {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("client_id", p.ClientID)
	set("redirect_uri", p.RedirectURI)
	set("scope", p.Scope)
	set("state", p.State)
	for k, v := range p.Extra {
		set(k, v)
	}
	return p.AuthorizeURL + "?" + q.Encode()
}

// tokenResponse is the upstream token endpoint's JSON shape.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades an authorization code for an access token via a
// form-encoded POST. Exactly one of the return values is set: a
// non-empty access token on success, or an ExchangeError on any
// transport failure, non-2xx status, or response lacking an
// access_token field. There is no retry.
func ExchangeCode(
	ctx context.Context,
	tokenURL, clientID, clientSecret, code, redirectURI string,
) (string, *ExchangeError) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", &ExchangeError{Status: http.StatusInternalServerError, Description: "failed to build token request"}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", &ExchangeError{Status: http.StatusInternalServerError, Description: "token request failed"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", &ExchangeError{Status: http.StatusInternalServerError, Description: "reading token response failed"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ExchangeError{
			Status:      resp.StatusCode,
			Description: fmt.Sprintf("upstream token endpoint returned status %d", resp.StatusCode),
		}
	}

	token := parseAccessToken(resp.Header.Get("Content-Type"), body)
	if token == "" {
		return "", &ExchangeError{
			Status:      http.StatusInternalServerError,
			Description: "upstream response did not contain an access token",
		}
	}

	return token, nil
}

// parseAccessToken extracts access_token from a JSON body, falling back
// to form encoding. GitHub answers with either depending on the Accept
// header it honoured.
func parseAccessToken(contentType string, body []byte) string {
	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		if vals, err := url.ParseQuery(string(body)); err == nil {
			return vals.Get("access_token")
		}
		return ""
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err == nil && tr.AccessToken != "" {
		return tr.AccessToken
	}

	// Some providers ignore Accept and reply form-encoded without a
	// content type.
	if vals, err := url.ParseQuery(string(body)); err == nil {
		return vals.Get("access_token")
	}
	return ""
}
