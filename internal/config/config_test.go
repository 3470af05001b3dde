package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultRateLimitMax, cfg.RateLimit.MaxRequests)
	assert.Equal(t, Duration(DefaultRateLimitWindow), cfg.RateLimit.Window)
	assert.Equal(t, Duration(DefaultUpstreamTimeout), cfg.Upstream.Timeout)
	assert.Equal(t, "*", cfg.Server.AllowedOrigin)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
upstream:
  url: "https://gateway.example.com/v1/chat/completions"
  model: "gpt-4.1"
rate_limit:
  max_requests: 30
  window: 2m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "gpt-4.1", cfg.Upstream.Model)
	assert.Equal(t, 30, cfg.RateLimit.MaxRequests)
	assert.Equal(t, Duration(2*time.Minute), cfg.RateLimit.Window)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultMaxTokens, cfg.Upstream.MaxTokens)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CONCIERGE_UPSTREAM_API_KEY", "sk-env-key")
	t.Setenv("CONCIERGE_LISTEN_ADDR", ":7000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-env-key", cfg.Upstream.APIKey)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rate_limit:
  max_requests: -1
  window: 0s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRateLimitMax, cfg.RateLimit.MaxRequests)
	assert.Equal(t, Duration(DefaultRateLimitWindow), cfg.RateLimit.Window)
}
