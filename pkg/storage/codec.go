package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/disrello/pkg/model"
)

// Encode serializes a document in the on-disk JSON layout.
func Encode(doc *model.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot and normalizes it. Empty input yields an
// empty document.
func Decode(data []byte) (*model.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.NewDocument(), nil
	}
	doc := &model.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}
