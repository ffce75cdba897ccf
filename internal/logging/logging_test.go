package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/streamtracker/streamtracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	logging.New(&buf, true).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, logging.OrDiscard(nil))
	l := logging.Discard()
	assert.Same(t, l, logging.OrDiscard(l))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, closer, err := logging.OpenFile(path, false)
	require.NoError(t, err)
	logger.Warn("restore failed", "err", "boom")
	require.NoError(t, closer.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "restore failed")
}
