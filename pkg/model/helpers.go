package model

import "strings"

// ClampInt bounds n to [lo, hi].
func ClampInt(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

// ParseBool accepts true/yes/y/1/on and false/no/n/0/off in any case. ok is
// false for anything else.
func ParseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, true
	case "false", "no", "n", "0", "off":
		return false, true
	}
	return false, false
}
