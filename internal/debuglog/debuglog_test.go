package debuglog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, closer, err := New(path, false)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewEnabledAppendsJSON(t *testing.T) {
	path := DefaultPath(t.TempDir())
	logger, closer, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("tick", "task", "7")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tick"`)
	assert.Contains(t, string(data), `"task":"7"`)
}

func TestEnabled(t *testing.T) {
	t.Setenv(EnvVar, "")
	assert.False(t, Enabled(false))
	assert.True(t, Enabled(true))

	t.Setenv(EnvVar, "1")
	assert.True(t, Enabled(false))
}
