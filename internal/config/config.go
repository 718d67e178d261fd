// Package config loads the deepwiki-mcp server configuration from an
// optional YAML file overlaid with DEEPWIKI_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment overrides.
const envPrefix = "DEEPWIKI_"

// Config holds everything the server needs at startup. Secrets arrive
// via environment variables; nothing here is written back to disk.
type Config struct {
	// Addr is the listen address, e.g. ":8788".
	Addr string `koanf:"addr"`

	// BaseURL is the externally visible origin of this server, used to
	// build the upstream redirect URI (BaseURL + "/callback").
	BaseURL string `koanf:"base_url"`

	// GitHubClientID is the upstream OAuth app client id.
	GitHubClientID string `koanf:"github_client_id"`

	// GitHubClientSecret is the upstream OAuth app client secret.
	GitHubClientSecret string `koanf:"github_client_secret"`

	// CookieKey signs the approval cookie and session tokens.
	CookieKey string `koanf:"cookie_key"`

	// AllowedUsers gates the raw file content tool, as a
	// comma-separated list of GitHub logins. Empty means every
	// authenticated user is allowed.
	AllowedUsers string `koanf:"allowed_users"`

	// Debug enables verbose logging.
	Debug bool `koanf:"debug"`
}

// DefaultConfig returns the baseline configuration before overrides.
func DefaultConfig() *Config {
	return &Config{
		Addr:    ":8788",
		BaseURL: "http://localhost:8788",
	}
}

// Load reads configuration from the given YAML file (if it exists),
// then overlays DEEPWIKI_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// DEEPWIKI_GITHUB_CLIENT_ID -> github_client_id, etc.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration is usable for serving.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.GitHubClientID == "" {
		return fmt.Errorf("github_client_id is required")
	}
	if c.GitHubClientSecret == "" {
		return fmt.Errorf("github_client_secret is required")
	}
	if len(c.CookieKey) < 32 {
		return fmt.Errorf("cookie_key must be at least 32 bytes")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

// CallbackURL is the upstream redirect target for this deployment.
func (c *Config) CallbackURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/callback"
}

// AllowedUserSet returns the allow-list as a lowercase set for O(1)
// membership checks at session construction. Nil means unrestricted.
func (c *Config) AllowedUserSet() map[string]bool {
	var set map[string]bool
	for _, u := range strings.Split(c.AllowedUsers, ",") {
		if u = strings.TrimSpace(u); u != "" {
			if set == nil {
				set = make(map[string]bool)
			}
			set[strings.ToLower(u)] = true
		}
	}
	return set
}
