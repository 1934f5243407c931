package dotdir

import "path/filepath"

// Join resolves name against the target directory. Absolute names are
// returned unchanged and an empty name resolves to the directory itself.
func (m *Manager) Join(overrideDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}

	if name == "" {
		return dir, nil
	}

	return filepath.Join(dir, name), nil
}
