package utils

import "unicode/utf8"

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return Clip(s, maxLen) + "..."
}

// Clip shortens s to at most maxRunes runes without adding
// an ellipsis. Multi-byte characters are never split.
func Clip(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
