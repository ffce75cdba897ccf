package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// DefaultAPIURL is the base URL of a locally running StreamTracker API.
const DefaultAPIURL = "http://localhost:8000/api/v1"

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 15 * time.Second

// Environment overrides applied by Load.
const (
	EnvAPIURL = "STREAMTRACKER_API_URL"
	EnvDebug  = "STREAMTRACKER_DEBUG"
)

// Config represents ~/.streamtracker/config.yaml.
type Config struct {
	APIURL  string `yaml:"api_url"`
	Timeout string `yaml:"timeout,omitempty"`

	// SealTokens encrypts the stored access and refresh tokens.
	SealTokens *bool `yaml:"seal_tokens,omitempty"`
	Debug      bool  `yaml:"debug,omitempty"`
}

// Default returns a config with default values.
func Default() Config {
	seal := true
	return Config{
		APIURL:     DefaultAPIURL,
		Timeout:    DefaultTimeout.String(),
		SealTokens: &seal,
	}
}

// Parse parses config.yaml bytes into a Config. Missing fields take their
// defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.SealTokens == nil {
		cfg.SealTokens = Default().SealTokens
	}
	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return Config{}, fmt.Errorf("parsing config: invalid timeout %q: %w", cfg.Timeout, err)
		}
	}
	return cfg, nil
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Load reads the config file at path and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// RequestTimeout returns the configured per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// SealEnabled reports whether stored tokens are encrypted.
func (c Config) SealEnabled() bool {
	return c.SealTokens == nil || *c.SealTokens
}
