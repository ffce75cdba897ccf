package paths_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/streamtracker/streamtracker/internal/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDir(t *testing.T) {
	t.Setenv(paths.HomeEnv, "")
	home, _ := os.UserHomeDir()
	assert.True(t, strings.HasPrefix(paths.DataDir(), home))
	assert.True(t, strings.HasSuffix(paths.DataDir(), ".streamtracker"))
}

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.HomeEnv, dir)
	assert.Equal(t, dir, paths.DataDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), paths.ConfigFile())
}

func TestFiles(t *testing.T) {
	assert.True(t, strings.HasSuffix(paths.StoreFile(), "store.db"))
	assert.True(t, strings.HasSuffix(paths.StoreKeyFile(), "store.key"))
	assert.True(t, strings.HasSuffix(paths.DebugLogFile(), "debug.log"))
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv(paths.HomeEnv, dir)
	require.NoError(t, paths.EnsureDataDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
