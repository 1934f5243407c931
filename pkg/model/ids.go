package model

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier kinds.
const (
	KindBoard   = "board"
	KindList    = "list"
	KindCard    = "card"
	KindSummary = "sum"
	KindPost    = "post"
)

// NewID returns "<kind>_<hex>" with 48 bits of randomness.
func NewID(kind string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return kind + "_" + hex[:12]
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
