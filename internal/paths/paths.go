package paths

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the data directory when set.
const HomeEnv = "STREAMTRACKER_HOME"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// DataDir returns ~/.streamtracker, or $STREAMTRACKER_HOME when set.
func DataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".streamtracker")
}

// ConfigFile returns ~/.streamtracker/config.yaml.
func ConfigFile() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// StoreFile returns ~/.streamtracker/store.db.
func StoreFile() string {
	return filepath.Join(DataDir(), "store.db")
}

// StoreKeyFile returns ~/.streamtracker/store.key.
func StoreKeyFile() string {
	return filepath.Join(DataDir(), "store.key")
}

// DebugLogFile returns ~/.streamtracker/debug.log.
func DebugLogFile() string {
	return filepath.Join(DataDir(), "debug.log")
}

// EnsureDataDir creates the data directory with owner-only permissions.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o700)
}
