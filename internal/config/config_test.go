package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "env: Production\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.True(t, cfg.IsProduction())
	assert.Contains(t, cfg.DSN, "tcp(127.0.0.1:3306)/portal_core")
	assert.Contains(t, cfg.DSN, "parseTime=true")
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
port: 8080
database:
  host: db.internal
  port: 3307
  user: portal
  password: hunter2
  name: portal
redis:
  host: cache.internal
  db: 3
jwt_secret: s3cret
allowed_origins:
  - " https://portal.example.com "
asset_store:
  endpoint: https://minio.internal/
  region: us-east-1
  bucket: portal-assets
  access_key: ak
  secret_key: sk
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Contains(t, cfg.DSN, "portal:hunter2@tcp(db.internal:3307)/portal")
	assert.Equal(t, "redis://cache.internal:6379/3", cfg.RedisURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"https://portal.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://minio.internal", cfg.AssetStore.Endpoint)
	assert.Equal(t, "portal-assets", cfg.AssetStore.Bucket)
}

func TestLoadExplicitDSNWins(t *testing.T) {
	path := writeConfig(t, `
dsn: user:pw@tcp(explicit:3306)/other?parseTime=true
database:
  host: ignored.internal
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "user:pw@tcp(explicit:3306)/other?parseTime=true", cfg.DSN)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "prot: 8080\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "port: 99999\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
