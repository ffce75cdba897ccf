package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamtracker/streamtracker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		input := []byte(`api_url: https://api.example.com/api/v1/
timeout: 30s
seal_tokens: false
debug: true
`)
		cfg, err := config.Parse(input)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api/v1", cfg.APIURL)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
		assert.False(t, cfg.SealEnabled())
		assert.True(t, cfg.Debug)
	})

	t.Run("empty config takes defaults", func(t *testing.T) {
		cfg, err := config.Parse([]byte(``))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
		assert.Equal(t, config.DefaultTimeout, cfg.RequestTimeout())
		assert.True(t, cfg.SealEnabled())
		assert.False(t, cfg.Debug)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		_, err := config.Parse([]byte(`timeout: soon`))
		assert.ErrorContains(t, err, "invalid timeout")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.Parse([]byte(`{{{`))
		assert.Error(t, err)
	})
}

func TestMarshalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.APIURL = "https://api.example.com"

	data, err := config.Marshal(cfg)
	require.NoError(t, err)

	parsed, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIURL, parsed.APIURL)
	assert.Equal(t, cfg.RequestTimeout(), parsed.RequestTimeout())
	assert.True(t, parsed.SealEnabled())
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv(config.EnvAPIURL, "")
		t.Setenv(config.EnvDebug, "")
		cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api_url: http://file\n"), 0o600))
		t.Setenv(config.EnvAPIURL, "http://env/")
		t.Setenv(config.EnvDebug, "1")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://env", cfg.APIURL)
		assert.True(t, cfg.Debug)
	})

	t.Run("save then load", func(t *testing.T) {
		t.Setenv(config.EnvAPIURL, "")
		t.Setenv(config.EnvDebug, "")
		path := filepath.Join(t.TempDir(), "sub", "config.yaml")
		cfg := config.Default()
		cfg.Timeout = "5s"
		require.NoError(t, config.Save(path, cfg))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, loaded.RequestTimeout())
	})
}
