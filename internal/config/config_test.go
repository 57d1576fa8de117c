package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xtding233/wayward-coins/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8090, cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	require.Equal(t, []string{"GET", "POST", "DELETE", "OPTIONS"}, cfg.Server.CORS.AllowedMethods)
	require.True(t, cfg.GRPC.Enabled)
	require.Equal(t, 8091, cfg.GRPC.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Catalog.File)
	require.Equal(t, 5*time.Second, cfg.Catalog.ReloadInterval)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, "wc_session", cfg.Session.CookieName)
	require.Equal(t, store.ModeMemory, cfg.Store.Mode)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  debug: true
log:
  level: debug
  format: console
catalog:
  file: /srv/catalog.yaml
  reload_interval: 1m
store:
  mode: redis
  redis:
    addr: localhost:6379
    db: 2
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.True(t, cfg.Server.Debug)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, "/srv/catalog.yaml", cfg.Catalog.File)
	require.Equal(t, time.Minute, cfg.Catalog.ReloadInterval)
	require.Equal(t, store.ModeRedis, cfg.Store.Mode)
	require.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	require.Equal(t, 2, cfg.Store.Redis.DB)
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAYWARD_SERVER_PORT", "7070")
	t.Setenv("WAYWARD_SESSION_TTL", "2h")
	t.Setenv("WAYWARD_GRPC_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, 2*time.Hour, cfg.Session.TTL)
	require.False(t, cfg.GRPC.Enabled)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
