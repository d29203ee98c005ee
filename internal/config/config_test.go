package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults_and_env_override", func(t *testing.T) {
		t.Setenv("STOREFRONT_SESSION_SECRET", "s3cret")
		t.Setenv("STOREFRONT_REDIS_ADDR", "redis:6380")
		t.Setenv("STOREFRONT_CART_REQUIREIDENTITY", "false")

		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "s3cret", cfg.Session.Secret)
		assert.Equal(t, "redis:6380", cfg.Redis.Addr)
		assert.False(t, cfg.Cart.RequireIdentity)
		assert.Equal(t, "3000", cfg.HTTP.Port)
		assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
		assert.Equal(t, "sf_session", cfg.Session.CookieName)
	})

	t.Run("yaml_file_then_env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
http:
  port: "9090"
upstream:
  baseurl: https://api.example.com/api/v1
session:
  secret: from-file
`), 0o600))
		t.Setenv("STOREFRONT_HTTP_PORT", "7070")

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "7070", cfg.HTTP.Port)
		assert.Equal(t, "https://api.example.com/api/v1", cfg.Upstream.BaseURL)
		assert.Equal(t, "from-file", cfg.Session.Secret)
	})

	t.Run("missing_secret", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
