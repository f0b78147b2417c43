package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 168*time.Hour, cfg.Auth.JWT.TTL)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "./uploads", cfg.Uploads.Dir)
	require.Equal(t, "http://localhost:5173", cfg.Frontend.Origin)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	contents := []byte(`
server:
  port: 9100
  log_level: debug
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: hirementis
  name: hirementis
auth:
  jwt:
    secret: test-secret
    ttl: 24h
email:
  smtp:
    enabled: true
    host: smtp.internal
    port: 2525
admin:
  email: admin@example.com
  password: changeme1
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), contents, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "test-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("HIREMENTIS_SERVER_PORT", "9200")
	t.Setenv("HIREMENTIS_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9200, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}
