// Package credentials stores provider API keys in credentials.toml inside
// the .disrello/ directory.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/disrello/pkg/dotdir"
)

const (
	fileName    = "credentials.toml"
	fileVersion = 0
)

// keyedProviders lists the LLM providers that authenticate with an API key,
// together with the environment variable that overrides the stored key.
var keyedProviders = map[string]string{
	"openai": "OPENAI_API_KEY",
}

// Manager reads and writes credentials.toml.
type Manager struct {
	path string
}

// NewManager resolves the .disrello/ directory (override first, then the
// usual dotdir lookup) and returns a Manager for its credentials.toml.
func NewManager(override string) (*Manager, error) {
	path, err := dotdir.NewManager().Join(override, fileName)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path}, nil
}

// GetTarget is the absolute path of credentials.toml.
func (m *Manager) GetTarget() string {
	return m.path
}

// Load parses credentials.toml. A missing file yields an empty File.
func (m *Manager) Load() (*File, error) {
	f := &File{Version: fileVersion}

	data, err := os.ReadFile(m.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading credentials: %w", err)
	default:
		if err := toml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("parsing credentials: %w", err)
		}
	}

	if f.Providers == nil {
		f.Providers = map[string]KeyEntry{}
	}
	return f, nil
}

// Save replaces credentials.toml with f. The file is only ever readable by
// the owner.
func (m *Manager) Save(f *File) error {
	if f == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// update loads the file, applies fn and saves the result.
func (m *Manager) update(fn func(*File)) error {
	f, err := m.Load()
	if err != nil {
		return err
	}
	fn(f)
	return m.Save(f)
}

// SetKey stores key for provider, trimmed of surrounding whitespace.
func (m *Manager) SetKey(provider, key string) error {
	if !IsSupportedProvider(provider) {
		return fmt.Errorf("unsupported provider %q (supported: %v)", provider, SupportedProviders())
	}
	return m.update(func(f *File) {
		f.Providers[provider] = KeyEntry{APIKey: strings.TrimSpace(key)}
	})
}

// GetKey returns the stored key for provider, or "" when none is stored.
func (m *Manager) GetKey(provider string) (string, error) {
	f, err := m.Load()
	if err != nil {
		return "", err
	}
	return f.Providers[provider].APIKey, nil
}

// ResolveKey returns the provider's key from its environment variable when
// set, and from credentials.toml otherwise.
func (m *Manager) ResolveKey(provider string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvVarForProvider(provider))); v != "" {
		return v, nil
	}
	return m.GetKey(provider)
}

// RemoveKey forgets the key for provider. Unknown providers are ignored.
func (m *Manager) RemoveKey(provider string) error {
	return m.update(func(f *File) {
		delete(f.Providers, provider)
	})
}

// ListProviders returns the providers with a stored key, sorted by name.
func (m *Manager) ListProviders() ([]string, error) {
	f, err := m.Load()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(f.Providers)), nil
}

// EnvVarForProvider names the environment variable that overrides the
// stored key for provider, or "" for providers without one.
func EnvVarForProvider(provider string) string {
	return keyedProviders[provider]
}

// SupportedProviders lists the providers that take an API key.
func SupportedProviders() []string {
	return slices.Sorted(maps.Keys(keyedProviders))
}

// IsSupportedProvider reports whether provider takes an API key.
func IsSupportedProvider(provider string) bool {
	_, ok := keyedProviders[provider]
	return ok
}
