// Package inmemory keeps the document in process memory. Every Load returns
// an independent copy so callers cannot mutate the stored snapshot.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage"
)

// Driver implements storage.Driver using an encoded in-memory snapshot.
type Driver struct {
	// mu guards snapshot
	mu sync.RWMutex

	// snapshot is the last saved document in its JSON encoding
	snapshot []byte
}

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{}
}

func (d *Driver) Load(_ context.Context) (*model.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return storage.Decode(d.snapshot)
}

func (d *Driver) Save(_ context.Context, doc *model.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot = data
	return nil
}

func (d *Driver) Close() error {
	return nil
}
