// Package storage persists the whole model.Document as a single snapshot.
package storage

import (
	"context"

	"github.com/papercomputeco/disrello/pkg/model"
)

// Driver loads and replaces the persisted document. Save replaces the
// previous snapshot in one step; readers never observe a partial write.
type Driver interface {
	// Load returns the stored document. A backend with nothing stored yet
	// returns an empty document and no error.
	Load(ctx context.Context) (*model.Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc *model.Document) error

	// Close releases any resources held by the driver.
	Close() error
}
