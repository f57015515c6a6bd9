package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Server.URL)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "nord", cfg.Theme)
	assert.True(t, cfg.Notifications)
	assert.Equal(t, filepath.Join(cfg.DataDir, "store.db"), cfg.Serve.DB)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  url: https://tasks.example.com/
  session: abc
  timeout: 3s
theme: dracula
data_dir: /tmp/moodlist-test
notifications: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", cfg.Server.URL)
	assert.Equal(t, "abc", cfg.Server.Session)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.False(t, cfg.Notifications)
	assert.Equal(t, "/tmp/moodlist-test/store.db", cfg.Serve.DB)
	assert.Equal(t, path, cfg.File)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "theme: dracula\n")
	t.Setenv("MOODLIST_THEME", "nord")
	t.Setenv("MOODLIST_SERVER_SESSION", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "from-env", cfg.Server.Session)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, "server:\n  url: localhost:5000\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "server.url")
}
