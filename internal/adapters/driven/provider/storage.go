package provider

import (
	"sync"
	"time"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// RegisteredClient is an MCP client known to the authorization server,
// created through dynamic registration or pre-registered at startup.
type RegisteredClient struct {
	// ClientID is the unique client identifier.
	ClientID string `json:"client_id"`

	// ClientName is the human-readable client name, when provided.
	ClientName string `json:"client_name,omitempty"`

	// RedirectURIs are the redirect URIs the client registered.
	RedirectURIs []string `json:"redirect_uris,omitempty"`

	// TokenEndpointAuthMethod is "none" for the public clients this
	// server registers.
	TokenEndpointAuthMethod string `json:"token_endpoint_auth_method,omitempty"`

	// CreatedAt is when the client registered.
	CreatedAt time.Time `json:"created_at"`
}

// authCode is a single-use authorization code bound to the identity
// that completed the upstream flow.
type authCode struct {
	code      string
	pending   domain.PendingAuthorization
	props     domain.AuthorizedProps
	expiresAt time.Time
	consumed  bool
}

// Storage persists clients and pending authorization codes. Session
// tokens are self-contained and never stored.
type Storage interface {
	// SaveClient stores a registered client, overwriting any previous
	// registration under the same id.
	SaveClient(client *RegisteredClient) error

	// GetClient returns the client or domain.ErrNotFound.
	GetClient(clientID string) (*RegisteredClient, error)

	// SaveCode stores a fresh authorization code.
	SaveCode(code *authCode) error

	// ConsumeCode atomically looks up a code and marks it consumed,
	// judging expiry against now. It returns domain.ErrNotFound for
	// unknown codes, domain.ErrCodeConsumed on reuse and
	// domain.ErrCodeExpired for codes past their deadline.
	ConsumeCode(code string, now time.Time) (*authCode, error)

	// Cleanup drops expired codes.
	Cleanup()
}

// MemoryStorage is the in-memory Storage used by the server. State does
// not survive a restart; clients re-register and users re-authorize.
type MemoryStorage struct {
	mu      sync.Mutex
	clients map[string]*RegisteredClient
	codes   map[string]*authCode
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		clients: make(map[string]*RegisteredClient),
		codes:   make(map[string]*authCode),
	}
}

// SaveClient stores a registered client.
func (m *MemoryStorage) SaveClient(client *RegisteredClient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ClientID] = client
	return nil
}

// GetClient returns the client registered under clientID.
func (m *MemoryStorage) GetClient(clientID string) (*RegisteredClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.clients[clientID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// SaveCode stores a fresh authorization code.
func (m *MemoryStorage) SaveCode(code *authCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[code.code] = code
	return nil
}

// ConsumeCode looks up and invalidates a code in one step so that two
// concurrent exchanges cannot both succeed. The caller supplies the
// clock so expiry follows the provider's notion of time.
func (m *MemoryStorage) ConsumeCode(code string, now time.Time) (*authCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ac, ok := m.codes[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ac.consumed {
		return nil, domain.ErrCodeConsumed
	}
	if now.After(ac.expiresAt) {
		return nil, domain.ErrCodeExpired
	}
	ac.consumed = true
	return ac, nil
}

// Cleanup drops codes past their deadline, consumed or not.
func (m *MemoryStorage) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for code, ac := range m.codes {
		if now.After(ac.expiresAt) {
			delete(m.codes, code)
		}
	}
}

// StartCleanup runs Cleanup on the given interval until the returned
// stop function is called.
func (m *MemoryStorage) StartCleanup(interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Cleanup()
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}
