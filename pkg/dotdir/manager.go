// Package dotdir locates the .disrello/ data directory that holds
// config.toml, credentials.toml, the stored document and serve state.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name is the directory name looked up in the working and home directories.
const Name = ".disrello"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target resolves the data directory, creates it when missing and returns
// its absolute path. An explicit override wins, then ./.disrello when it
// already exists, then ~/.disrello.
func (m *Manager) Target(override string) (string, error) {
	dir, err := m.resolve(override)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating disrello directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

func (m *Manager) resolve(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if local := filepath.Join(cwd, Name); isDir(local) {
		return local, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, Name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
