package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 10, cfg.Scorer.TimeoutSeconds)
	assert.Equal(t, 300, cfg.Scorer.CacheTTLSeconds)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "standard", cfg.Guard.DefaultPreset)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.Model)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  host: 127.0.0.1
  port: 9000
scorer:
  base_url: http://scorer:8000
  token: test-token
guard:
  default_preset: strict
providers:
  anthropic:
    api_key: test-key
    model: claude-3-5-sonnet-latest
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://scorer:8000", cfg.Scorer.BaseURL)
	assert.Equal(t, "test-token", cfg.Scorer.Token)
	assert.Equal(t, "strict", cfg.Guard.DefaultPreset)
	assert.Equal(t, "test-key", cfg.Providers.Anthropic.APIKey)
	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.Providers.Anthropic.Model)

	// Unset keys keep their defaults.
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 5, cfg.Scorer.MaxFailures)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
