package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingAuthorization_JSONRoundTrip(t *testing.T) {
	t.Run("preserves typed fields", func(t *testing.T) {
		pending := PendingAuthorization{
			ClientID:     "client-123",
			RedirectURI:  "https://example.com/cb",
			Scope:        []string{"read", "write"},
			ResponseType: "code",
			State:        "abc",
		}

		data, err := json.Marshal(pending)
		require.NoError(t, err)

		var decoded PendingAuthorization
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, pending.Equal(decoded))
	})

	t.Run("preserves unknown provider fields", func(t *testing.T) {
		raw := []byte(`{
			"client_id": "client-123",
			"redirect_uri": "https://example.com/cb",
			"resource": "https://mcp.example.com",
			"nested": {"a": [1, 2, 3]}
		}`)

		var pending PendingAuthorization
		require.NoError(t, json.Unmarshal(raw, &pending))
		assert.Equal(t, "client-123", pending.ClientID)
		require.Contains(t, pending.Extra, "resource")
		require.Contains(t, pending.Extra, "nested")

		// Captured values are compacted, so stored bytes match what
		// marshalling emits even when the source was pretty-printed.
		assert.Equal(t, `{"a":[1,2,3]}`, string(pending.Extra["nested"]))

		data, err := json.Marshal(pending)
		require.NoError(t, err)

		var decoded PendingAuthorization
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, pending.Equal(decoded))
		assert.JSONEq(t, `{"a":[1,2,3]}`, string(decoded.Extra["nested"]))
	})

	t.Run("empty extra stays nil", func(t *testing.T) {
		var pending PendingAuthorization
		require.NoError(t, json.Unmarshal([]byte(`{"client_id":"x"}`), &pending))
		assert.Nil(t, pending.Extra)
	})
}

func TestPendingAuthorization_Equal(t *testing.T) {
	base := PendingAuthorization{ClientID: "c", Scope: []string{"a"}}

	t.Run("equal to itself", func(t *testing.T) {
		assert.True(t, base.Equal(base))
	})

	t.Run("different scope order is not equal", func(t *testing.T) {
		a := PendingAuthorization{ClientID: "c", Scope: []string{"a", "b"}}
		b := PendingAuthorization{ClientID: "c", Scope: []string{"b", "a"}}
		assert.False(t, a.Equal(b))
	})

	t.Run("different extra is not equal", func(t *testing.T) {
		a := PendingAuthorization{ClientID: "c", Extra: map[string]json.RawMessage{"k": []byte(`1`)}}
		b := PendingAuthorization{ClientID: "c", Extra: map[string]json.RawMessage{"k": []byte(`2`)}}
		assert.False(t, a.Equal(b))
	})
}
