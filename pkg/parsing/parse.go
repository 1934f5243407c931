// Package parsing turns raw chat text into structured bot intents.
//
// Two command grammars are supported. The function-call form
// `!cmd(action) rest` and the shortcut form `!cmd rest`, which also accepts
// the legacy fused names `!boardscreate`, `!listscreate` and `!cardscreate`.
// In both, an optional `[List Name]` bracket is pulled out first and double
// quoted segments then supply the board reference and positional arguments.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	functionCallRe = regexp.MustCompile(`^!(\w+)\((\w+)\)\s*(.*)$`)
	bracketRe      = regexp.MustCompile(`\[([^\[\]]+)\]`)
	quoteRe        = regexp.MustCompile(`"([^"]*)"`)
)

// Intent is a parsed command.
type Intent struct {
	Command Command
	Action  Action

	// Word is the lowercased command word as typed, before fused-name
	// mapping.
	Word string

	BoardRef string
	ListName string
	Args     []string

	// RawRest is the text after the command (and action keyword).
	RawRest string
	// RawRestWithoutList is RawRest with the bracketed list removed.
	RawRestWithoutList string
}

// Parse tries the function-call form and then the shortcut form.
func Parse(raw string) (*Intent, bool) {
	if in, ok := ParseFunctionCall(raw); ok {
		return in, true
	}
	return ParseShortcut(raw)
}

// ParseFunctionCall parses `!cmd(action) rest`.
func ParseFunctionCall(raw string) (*Intent, bool) {
	m := functionCallRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, false
	}
	word := strings.ToLower(m[1])
	rest := strings.TrimSpace(m[3])

	listName, restWithoutList := ExtractBracketList(rest)
	quoted := ExtractQuotedArgs(restWithoutList)

	in := &Intent{
		Command:            ParseCommand(word),
		Action:             ParseAction(m[2]),
		Word:               word,
		ListName:           listName,
		RawRest:            rest,
		RawRestWithoutList: restWithoutList,
		Args:               []string{},
	}
	if len(quoted) > 0 {
		in.BoardRef = quoted[0]
		in.Args = quoted[1:]
	}
	return in, true
}

// ParseShortcut parses `!cmd rest`. Commands outside the allow-list yield
// no parse.
func ParseShortcut(raw string) (*Intent, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "!") {
		return nil, false
	}

	var first, rest string
	if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
		first, rest = raw[:i], raw[i:]
	} else {
		first, rest = raw, ""
	}
	word := strings.ToLower(first[1:])
	rest = strings.TrimSpace(rest)

	cmd, action := ParseCommand(word), ActionShortcut
	if fused, ok := fusedCommands[word]; ok {
		cmd, action = fused.cmd, fused.action
	}
	if cmd == CommandUnknown {
		return nil, false
	}

	if action == ActionShortcut && cmd.IsEntity() {
		if tok, ok := firstTokenOutsideQuotes(rest); ok {
			if a, ok := shortcutActions[strings.ToLower(tok)]; ok {
				action = a
				rest = strings.TrimLeftFunc(rest[len(tok):], unicode.IsSpace)
			}
		}
	}

	listName, restWithoutList := ExtractBracketList(rest)
	quoted := ExtractQuotedArgs(restWithoutList)

	in := &Intent{
		Command:            cmd,
		Action:             action,
		Word:               word,
		ListName:           listName,
		RawRest:            rest,
		RawRestWithoutList: restWithoutList,
		Args:               []string{},
	}

	// A leading bare token on create names the board; quoted segments are
	// then all arguments.
	if action == ActionCreate {
		if tok, ok := firstTokenOutsideQuotes(restWithoutList); ok {
			in.BoardRef = tok
			in.Args = quoted
			return in, true
		}
	}
	if len(quoted) > 0 {
		in.BoardRef = quoted[0]
		in.Args = quoted[1:]
	}
	return in, true
}

// ExtractBracketList pulls the first `[List Name]` segment out of text and
// returns it with the remaining trimmed text.
func ExtractBracketList(text string) (string, string) {
	loc := bracketRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", strings.TrimSpace(text)
	}
	name := strings.TrimSpace(text[loc[2]:loc[3]])
	remaining := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return name, remaining
}

// ExtractQuotedArgs returns every double-quoted segment of text, trimmed,
// in order of appearance.
func ExtractQuotedArgs(text string) []string {
	matches := quoteRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// firstTokenOutsideQuotes returns the first whitespace-delimited token of
// text. A token that would start with a quote is not returned, and a token
// ends at the next quote.
func firstTokenOutsideQuotes(text string) (string, bool) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	if text == "" || text[0] == '"' {
		return "", false
	}
	end := strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"'
	})
	if end < 0 {
		end = len(text)
	}
	tok := text[:end]
	return tok, tok != ""
}
