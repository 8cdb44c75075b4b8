// Package workspace resolves the guardian directories under the user's home.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserGuardianDir returns the user-level guardian directory (~/.guardian)
func UserGuardianDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".guardian"), nil
}

// HistoryDir returns the chat history directory (~/.guardian/history)
func HistoryDir() (string, error) {
	dir, err := UserGuardianDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// LogsDir returns the log directory (~/.guardian/logs)
func LogsDir() (string, error) {
	dir, err := UserGuardianDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// EnsureGuardianDirs creates the guardian directory tree if it is missing and
// returns the root.
func EnsureGuardianDirs() (string, error) {
	root, err := UserGuardianDir()
	if err != nil {
		return "", err
	}

	for _, sub := range []string{"", "history", "logs"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			return "", fmt.Errorf("failed to create guardian directory: %w", err)
		}
	}
	return root, nil
}
