// Package start records the state of a running `disrello serve` and guards
// the data dir with an advisory run lock so only one serve uses it at a time.
package start

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/papercomputeco/disrello/pkg/dotdir"
)

const (
	stateFileName = "serve.json"
	logFileName   = "serve.log"
	lockFileName  = "serve.lock"
	stateVersion  = 1
)

// ErrLocked is returned by TryLock when another process holds the run lock.
var ErrLocked = errors.New("another disrello serve holds the run lock")

// State describes the running serve process.
type State struct {
	Version       int       `json:"version"`
	PID           int       `json:"pid"`
	Listen        string    `json:"listen"`
	StorageDriver string    `json:"storage_driver"`
	StorageTarget string    `json:"storage_target,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	LogPath       string    `json:"log_path"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Manager knows the serve files inside one data directory.
type Manager struct {
	Dir       string
	StatePath string
	LogPath   string
	LockPath  string
}

// Lock is a held run lock. Release it to let another serve start.
type Lock struct {
	file *os.File
}

func NewManager(configDir string) (*Manager, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, err
	}

	return &Manager{
		Dir:       dir,
		StatePath: filepath.Join(dir, stateFileName),
		LogPath:   filepath.Join(dir, logFileName),
		LockPath:  filepath.Join(dir, lockFileName),
	}, nil
}

// TryLock takes the run lock without blocking. It returns ErrLocked when the
// lock is already held, including by another Lock in this process.
func (m *Manager) TryLock() (*Lock, error) {
	file, err := os.OpenFile(m.LockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("locking run file: %w", err)
	}

	return &Lock{file: file}, nil
}

// Held reports whether some process currently holds the run lock.
func (m *Manager) Held() (bool, error) {
	lock, err := m.TryLock()
	if errors.Is(err, ErrLocked) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, lock.Release()
}

func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = l.file.Close()
		return fmt.Errorf("unlocking run file: %w", err)
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// LoadState returns the recorded state, or nil when none is recorded.
func (m *Manager) LoadState() (*State, error) {
	data, err := os.ReadFile(m.StatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading serve state: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing serve state: %w", err)
	}

	return state, nil
}

// SaveState records state in serve.json, stamping the schema version, the
// update time and the log path when unset.
func (m *Manager) SaveState(state *State) error {
	if state == nil {
		return errors.New("cannot save nil state")
	}
	if state.Version == 0 {
		state.Version = stateVersion
	}
	if state.LogPath == "" {
		state.LogPath = m.LogPath
	}
	state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling serve state: %w", err)
	}
	if err := writeAtomic(m.StatePath, data); err != nil {
		return fmt.Errorf("writing serve state: %w", err)
	}
	return nil
}

// writeAtomic replaces path with data through a temp file in the same
// directory, so readers see either the old or the new content.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ClearState removes serve.json. A missing file is not an error.
func (m *Manager) ClearState() error {
	err := os.Remove(m.StatePath)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("removing serve state: %w", err)
}
