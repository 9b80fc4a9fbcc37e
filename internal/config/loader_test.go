package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the scholard config dir in it.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "scholard")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.False(t, cfg.Latency.Simulate)
	assert.Equal(t, time.Second, cfg.Latency.Citation.Duration())
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "scholard", cfg.Observability.ServiceName)
	assert.Equal(t, "grpc", cfg.Observability.OTLPProtocol)
	assert.Equal(t, *Default(), *cfg)
}

func TestLoad_YAML(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, `server:
  http_port: 9191
  rate_limit: 5
  auth_token: s3cret
latency:
  simulate: true
  citation_delay: 250ms
store:
  driver: sqlite
  path: /tmp/scholard-test.db
matcher:
  citation_threshold: 35
observability:
  log_level: debug
`, 0o600)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.Equal(t, "s3cret", cfg.Server.AuthToken.Value())
	assert.Equal(t, 250*time.Millisecond, cfg.Latency.For(cfg.Latency.Citation))
	assert.Equal(t, 1500*time.Millisecond, cfg.Latency.For(cfg.Latency.Transform))
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 35, cfg.Matcher.CitationThreshold)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "server:\n  http_port: 9191\n", 0o600)

	t.Setenv("SERVER_HTTP_PORT", "9292")
	t.Setenv("LATENCY_SIMULATE", "true")
	t.Setenv("LATENCY_RESEARCHER_DELAY", "2s")
	t.Setenv("CATALOG_PATH", "/tmp/catalog.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9292, cfg.Server.Port)
	assert.True(t, cfg.Latency.Simulate)
	assert.Equal(t, 2*time.Second, cfg.Latency.Researcher.Duration())
	assert.Equal(t, "/tmp/catalog.toml", cfg.Catalog.Path)
}

func TestLoad_RejectsInsecurePermissions(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "server:\n  http_port: 9191\n", 0o644)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "# "+strings.Repeat("x", maxConfigFileSize)+"\n", 0o600)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, "store:\n  driver: postgres\n", 0o600)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestValidateConfigPath(t *testing.T) {
	dir := setupTestHome(t)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"user dir", filepath.Join(dir, "config.yaml"), false},
		{"user subdir", filepath.Join(dir, "prod", "config.yaml"), false},
		{"etc", "/etc/scholard/config.yaml", false},
		{"etc passwd", "/etc/passwd", true},
		{"tmp", "/tmp/config.yaml", true},
		{"sibling prefix", "/etc/scholard../passwd", true},
		{"traversal", filepath.Join(dir, "..", "..", "etc", "passwd"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.http_port", envKey("SERVER_HTTP_PORT"))
	assert.Equal(t, "observability.service_name", envKey("OBSERVABILITY_SERVICE_NAME"))
	assert.Equal(t, "home", envKey("HOME"))
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(filepath.Join(home, ".config", "scholard"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
