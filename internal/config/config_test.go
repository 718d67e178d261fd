package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Addr:               ":8788",
		BaseURL:            "https://deepwiki.example.com",
		GitHubClientID:     "gh-client",
		GitHubClientSecret: "gh-secret",
		CookieKey:          "0123456789abcdef0123456789abcdef",
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults without file or env", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":8788", cfg.Addr)
		assert.Equal(t, "http://localhost:8788", cfg.BaseURL)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\nbase_url: https://docs.example.com\ndebug: true\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, "https://docs.example.com", cfg.BaseURL)
		assert.True(t, cfg.Debug)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ":8788", cfg.Addr)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\n"), 0o600))
		t.Setenv("DEEPWIKI_ADDR", ":7000")
		t.Setenv("DEEPWIKI_GITHUB_CLIENT_ID", "env-client")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "env-client", cfg.GitHubClientID)
	})
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing addr", func(c *Config) { c.Addr = "" }},
		{"missing client id", func(c *Config) { c.GitHubClientID = "" }},
		{"missing client secret", func(c *Config) { c.GitHubClientSecret = "" }},
		{"short cookie key", func(c *Config) { c.CookieKey = "too-short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCallbackURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://deepwiki.example.com/callback", cfg.CallbackURL())

	cfg.BaseURL = "https://deepwiki.example.com/"
	assert.Equal(t, "https://deepwiki.example.com/callback", cfg.CallbackURL())
}

func TestAllowedUserSet(t *testing.T) {
	t.Run("empty list means unrestricted", func(t *testing.T) {
		cfg := validConfig()
		assert.Nil(t, cfg.AllowedUserSet())
	})

	t.Run("lowercases and trims entries", func(t *testing.T) {
		cfg := validConfig()
		cfg.AllowedUsers = "Octocat, hubot ,"

		set := cfg.AllowedUserSet()
		assert.Equal(t, map[string]bool{"octocat": true, "hubot": true}, set)
	})
}
