// Package xdg provides helpers to resolve XDG Base Directory paths for browsemate.
// It falls back to the traditional locations under the home directory when the
// XDG environment variables are not set.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "browsemate"

// ConfigDir returns the XDG config directory for browsemate.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/browsemate when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for browsemate.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/browsemate when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(envVar, homeFallback string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeFallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
