package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "orpheus"

// GetXDGDataDir returns the XDG data directory for orpheus.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/orpheus
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// ResolveDataDir returns dir when set, otherwise the XDG data directory.
// The directory is created if missing.
func ResolveDataDir(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = GetXDGDataDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}
