package domain

import (
	"bytes"
	"encoding/json"
)

// PendingAuthorization is a not-yet-completed authorization request from
// an MCP client. It is carried opaquely through the upstream identity
// provider's redirect round trip. Only ClientID is interpreted here;
// provider-defined fields are preserved in Extra.
type PendingAuthorization struct {
	// ClientID identifies the requesting MCP client. Required.
	ClientID string `json:"client_id"`

	// RedirectURI is where the client expects to receive its code.
	RedirectURI string `json:"redirect_uri,omitempty"`

	// Scope is the requested scope list, in request order.
	Scope []string `json:"scope,omitempty"`

	// ResponseType is the OAuth response type, normally "code".
	ResponseType string `json:"response_type,omitempty"`

	// State is the client's own CSRF state, echoed back untouched.
	State string `json:"state,omitempty"`

	// CodeChallenge is the PKCE challenge, when the client sent one.
	CodeChallenge string `json:"code_challenge,omitempty"`

	// CodeChallengeMethod is the PKCE method, normally "S256".
	CodeChallengeMethod string `json:"code_challenge_method,omitempty"`

	// Extra preserves provider-defined fields this service does not
	// interpret. Values are stored in compact JSON form, so once
	// decoded they survive further round trips byte-for-byte.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownPendingFields are the JSON keys handled by the typed fields above.
var knownPendingFields = map[string]bool{
	"client_id": true, "redirect_uri": true, "scope": true,
	"response_type": true, "state": true,
	"code_challenge": true, "code_challenge_method": true,
}

// pendingAuthAlias avoids recursion in the custom JSON methods.
type pendingAuthAlias PendingAuthorization

// MarshalJSON merges the typed fields with the preserved Extra fields.
func (p PendingAuthorization) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(pendingAuthAlias(p))
	if err != nil {
		return nil, err
	}

	if len(p.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if !knownPendingFields[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the typed fields and captures everything else
// into Extra. Captured values are compacted so they match what
// MarshalJSON later emits.
func (p *PendingAuthorization) UnmarshalJSON(data []byte) error {
	var alias pendingAuthAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if knownPendingFields[k] {
			delete(raw, k)
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, v); err != nil {
			return err
		}
		raw[k] = json.RawMessage(compact.Bytes())
	}
	if len(raw) == 0 {
		raw = nil
	}

	*p = PendingAuthorization(alias)
	p.Extra = raw
	return nil
}

// Equal reports whether two pending authorizations are field-equal,
// comparing Extra values as JSON bytes.
func (p PendingAuthorization) Equal(other PendingAuthorization) bool {
	if p.ClientID != other.ClientID ||
		p.RedirectURI != other.RedirectURI ||
		p.ResponseType != other.ResponseType ||
		p.State != other.State ||
		p.CodeChallenge != other.CodeChallenge ||
		p.CodeChallengeMethod != other.CodeChallengeMethod {
		return false
	}
	if len(p.Scope) != len(other.Scope) {
		return false
	}
	for i := range p.Scope {
		if p.Scope[i] != other.Scope[i] {
			return false
		}
	}
	if len(p.Extra) != len(other.Extra) {
		return false
	}
	for k, v := range p.Extra {
		if !bytes.Equal(v, other.Extra[k]) {
			return false
		}
	}
	return true
}

// AuthorizedProps is the identity and capability bundle bound to a
// completed authorization. It is immutable and scoped to the session.
type AuthorizedProps struct {
	// Login is the upstream account login.
	Login string `json:"login"`

	// Name is the upstream display name, when set.
	Name string `json:"name,omitempty"`

	// Email is the upstream account email, when visible.
	Email string `json:"email,omitempty"`

	// AccessToken is the upstream bearer token. Never logged.
	AccessToken string `json:"access_token"`
}
