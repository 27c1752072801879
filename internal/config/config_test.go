package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLoader(dir string, env map[string]string) *Loader {
	l := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.getenv = func(k string) string { return env[k] }
	l.getwd = func() (string, error) { return dir, nil }
	return l
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := quietLoader(t.TempDir(), nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddr)
	assert.Equal(t, ReleaseConfigFile, cfg.Release.Config)
	assert.Empty(t, cfg.Store.RedisAddr)
}

func TestLoad_ProjectFileInParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "packages", "pack-b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(`
log_level: debug
server:
  http_addr: ":9090"
store:
  redis_addr: "cache:6379"
release:
  config: ci/releaserc.yaml
`), 0o644))

	cfg, err := quietLoader(nested, nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddr)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, filepath.Join(root, "ci", "releaserc.yaml"), cfg.Release.Config)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := quietLoader(t.TempDir(), map[string]string{
		"PACKDEMO_LOG_LEVEL": "warn",
		"REDIS_ADDR":         "localhost:6380",
		"MYSQL_DSN":          "root:root@tcp(localhost:3306)/packdemo",
	}).Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "localhost:6380", cfg.Store.RedisAddr)
	assert.Equal(t, "root:root@tcp(localhost:3306)/packdemo", cfg.Store.MySQLDSN)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := quietLoader(t.TempDir(), nil).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := quietLoader(t.TempDir(), map[string]string{"PACKDEMO_LOG_LEVEL": "loud"}).Load("")
	assert.Error(t, err)
}
