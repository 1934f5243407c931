package storage

import "errors"

// ErrNilDocument is returned when Save is handed a nil document.
var ErrNilDocument = errors.New("cannot save nil document")
