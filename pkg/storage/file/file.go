// Package file stores the document as a JSON file replaced atomically via
// a temp file and rename in the same directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage"
)

// Driver implements storage.Driver on a single JSON file.
type Driver struct {
	path string
}

// NewDriver returns a driver for path. Nothing is touched until Load or Save.
func NewDriver(path string) *Driver {
	return &Driver{path: path}
}

// Path returns the target file.
func (d *Driver) Path() string {
	return d.path
}

// Load reads the document. A missing file is an empty document.
func (d *Driver) Load(_ context.Context) (*model.Document, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewDocument(), nil
		}
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return storage.Decode(data)
}

// Save writes the full document to a temp file next to the target and then
// renames it over the target. The temp file is removed on any failure and
// the previous target is left untouched.
func (d *Driver) Save(_ context.Context, doc *model.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp document file: %w", err)
	}
	tmpName := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmpFile.Chmod(0o600); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp document file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing temp document file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("syncing temp document file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp document file: %w", err)
	}

	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("persisting document file: %w", err)
	}
	committed = true

	return nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}
