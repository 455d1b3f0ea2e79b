// Package paths resolves platform-specific configuration and data directory
// locations for the storectl tool.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under the platform config/data roots.
const appName = "storectl"

// Environment variable overrides checked before platform defaults.
const (
	EnvConfigDir = "STORECTL_CONFIG_DIR"
	EnvDataDir   = "STORECTL_DATA_DIR"
)

// DefaultConfigDir returns the default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/storectl (fallback ~/.config/storectl)
// macOS:   ~/Library/Application Support/storectl
// Windows: %APPDATA%/storectl
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultDataDir returns the default data directory.
//
// Linux:   $XDG_DATA_HOME/storectl (fallback ~/.local/share/storectl)
// macOS:   ~/Library/Application Support/storectl
// Windows: %APPDATA%/storectl
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}
