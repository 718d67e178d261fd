// Package authflow implements the browser-facing OAuth surface: the
// authorization and consent endpoints, the upstream callback, and the
// opaque state blob that carries a pending authorization through the
// upstream redirect round trip.
package authflow

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// DecodeError reports a state blob the client sent that cannot be
// decoded. Handlers map it to HTTP 400, never 500.
type DecodeError struct {
	// Reason is safe to include in the response body.
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid state parameter: %s", e.Reason)
}

// EncodeState serializes a pending authorization into the opaque state
// string carried through the upstream provider. Unknown fields captured
// in Extra survive the round trip byte-for-byte.
func EncodeState(pending domain.PendingAuthorization) (string, error) {
	data, err := json.Marshal(pending)
	if err != nil {
		return "", fmt.Errorf("encoding state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeState reverses EncodeState. Some user agents URL-escape the
// state before echoing it back, so a failed direct decode is retried
// after unescaping. All failures are *DecodeError values.
func DecodeState(raw string) (domain.PendingAuthorization, error) {
	var pending domain.PendingAuthorization

	if raw == "" {
		return pending, &DecodeError{Reason: "missing state"}
	}

	data, err := decodeBase64(raw)
	if err != nil {
		unescaped, uerr := url.QueryUnescape(raw)
		if uerr != nil {
			return pending, &DecodeError{Reason: "state is not valid base64"}
		}
		if data, err = decodeBase64(unescaped); err != nil {
			return pending, &DecodeError{Reason: "state is not valid base64"}
		}
	}

	if err := json.Unmarshal(data, &pending); err != nil {
		return pending, &DecodeError{Reason: "state is not valid JSON"}
	}
	if pending.ClientID == "" {
		return domain.PendingAuthorization{}, &DecodeError{Reason: "missing client_id"}
	}
	return pending, nil
}

// decodeBase64 accepts both padded and unpadded URL-safe encodings.
func decodeBase64(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
