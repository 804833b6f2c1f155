package config

import (
	"os"
	"path/filepath"
)

// DefaultPath is $XDG_CONFIG_HOME/wordtower/config.toml.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// ConfigDir returns $XDG_CONFIG_HOME/wordtower, falling back to
// ~/.config/wordtower.
func ConfigDir() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

// CacheDir returns $XDG_CACHE_HOME/wordtower, falling back to
// ~/.cache/wordtower.
func CacheDir() string { return xdgDir("XDG_CACHE_HOME", ".cache") }

// DataDir returns $XDG_DATA_HOME/wordtower, falling back to
// ~/.local/share/wordtower.
func DataDir() string { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback, AppName)
}
