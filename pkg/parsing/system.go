package parsing

import "strings"

// SystemPrefix marks admin and system controls.
const SystemPrefix = "!**"

// SystemCommand is a parsed `!** head args...` control.
type SystemCommand struct {
	// Head is the lowercased first word, empty for a bare prefix.
	Head string
	// Args are the remaining whitespace-separated words, case preserved.
	Args []string
	// Tail is everything after the prefix, trimmed.
	Tail string

	rest string
}

// ParseSystemCommand parses text carrying the system prefix.
func ParseSystemCommand(text string) (SystemCommand, bool) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, SystemPrefix) {
		return SystemCommand{}, false
	}
	tail := strings.TrimSpace(s[len(SystemPrefix):])
	fields := strings.Fields(tail)
	sc := SystemCommand{Tail: tail, Args: []string{}}
	if len(fields) > 0 {
		sc.Head = strings.ToLower(fields[0])
		sc.Args = fields[1:]
		sc.rest = strings.TrimSpace(tail[len(fields[0]):])
	}
	return sc, true
}

// Rest returns the tail with the head word removed.
func (sc SystemCommand) Rest() string {
	return sc.rest
}

// IsSystemHelp reports whether text is a bare `!** help` (or `h`, `?`).
func IsSystemHelp(text string) bool {
	sc, ok := ParseSystemCommand(text)
	if !ok || len(sc.Args) > 0 {
		return false
	}
	switch sc.Head {
	case "help", "h", "?":
		return true
	}
	return false
}

// IsCommand reports whether text is a bot command of any kind.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "!")
}
