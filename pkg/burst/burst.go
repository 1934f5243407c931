// Package burst selects a time-coherent slice of recent channel messages
// that reads as one conversation.
package burst

import (
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/contextmem"
)

// minLookback floors Params.Lookback.
const minLookback = 30 * time.Second

// HistoryKeep is how many trailing history entries a fallback scan keeps.
const HistoryKeep = 250

// Params tunes Select.
type Params struct {
	Lookback          time.Duration
	SilenceGap        time.Duration
	MinMessages       int
	MinAuthors        int
	TargetMaxMessages int
}

// Summarise returns the default summarise tunables.
func Summarise() Params {
	return Params{
		Lookback:          time.Hour,
		SilenceGap:        10 * time.Minute,
		MinMessages:       8,
		MinAuthors:        2,
		TargetMaxMessages: 60,
	}
}

// Taskify returns the default taskify tunables.
func Taskify() Params {
	return Params{
		Lookback:          15 * time.Minute,
		SilenceGap:        75 * time.Second,
		MinMessages:       6,
		MinAuthors:        2,
		TargetMaxMessages: 40,
	}
}

// ForTaskify relaxes p for the "make that a task" flow: at least four
// messages and between one and two authors.
func (p Params) ForTaskify() Params {
	p.MinMessages = max(4, p.MinMessages)
	p.MinAuthors = max(1, min(p.MinAuthors, 2))
	return p
}

// Select picks the conversation burst from entries, which must be in
// chronological order. An empty result means no usable burst.
func Select(entries []contextmem.Entry, now time.Time, p Params) []contextmem.Entry {
	if len(entries) == 0 {
		return nil
	}

	cutoff := now.Add(-max(minLookback, p.Lookback))
	var recent []contextmem.Entry
	for _, e := range entries {
		if !e.TS.Before(cutoff) {
			recent = append(recent, e)
		}
	}
	if len(recent) == 0 {
		return nil
	}

	// Walk newest to oldest. A silence gap ends the burst only once it is
	// already long enough.
	picked := make([]contextmem.Entry, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		if n := len(picked); n > 0 {
			gap := picked[n-1].TS.Sub(e.TS)
			if gap > p.SilenceGap && n >= p.MinMessages {
				break
			}
		}
		picked = append(picked, e)
	}
	reverse(picked)

	authors := authorSet(picked)
	if len(authors) < p.MinAuthors && len(recent) > len(picked) {
		rest := recent[:len(recent)-len(picked)]
		var older []contextmem.Entry
		for i := len(rest) - 1; i >= 0; i-- {
			older = append(older, rest[i])
			authors[rest[i].Author] = struct{}{}
			if len(authors) >= p.MinAuthors && len(older)+len(picked) >= p.MinMessages {
				break
			}
		}
		reverse(older)
		picked = append(older, picked...)
	}

	if p.TargetMaxMessages > 0 && len(picked) > p.TargetMaxMessages {
		picked = picked[len(picked)-p.TargetMaxMessages:]
	}

	if len(picked) < p.MinMessages || len(authorSet(picked)) < p.MinAuthors {
		return nil
	}
	return picked
}

// IsInContext reports whether a selected burst carries real conversation.
// Empty and command-like entries are ignored; what remains needs at least
// six entries from two authors averaging twelve characters.
func IsInContext(entries []contextmem.Entry) bool {
	var (
		count   int
		total   int
		authors = map[string]struct{}{}
	)
	for _, e := range entries {
		if IsCommandish(e.Text) {
			continue
		}
		count++
		total += len([]rune(e.Text))
		authors[e.Author] = struct{}{}
	}
	if count < 6 || len(authors) < 2 {
		return false
	}
	return float64(total)/float64(count) >= 12
}

// IsCommandish reports whether text is empty or a bot command.
func IsCommandish(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || strings.HasPrefix(t, "!")
}

// FromHistory keeps the last keep entries of a fallback history scan.
func FromHistory(history []contextmem.Entry, keep int) []contextmem.Entry {
	if keep > 0 && len(history) > keep {
		return history[len(history)-keep:]
	}
	return history
}

// FilterHistory drops command-like entries and entries shorter than
// minChars from a raw history scan.
func FilterHistory(history []contextmem.Entry, minChars int) []contextmem.Entry {
	out := make([]contextmem.Entry, 0, len(history))
	for _, e := range history {
		text := strings.TrimSpace(e.Text)
		if len([]rune(text)) < minChars || IsCommandish(text) {
			continue
		}
		e.Text = text
		out = append(out, e)
	}
	return out
}

// Render formats entries as "name: text" lines for a prompt. nameOf maps
// an author id to a display name and may be nil.
func Render(entries []contextmem.Entry, nameOf func(author string) string) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		text := strings.ReplaceAll(strings.TrimSpace(e.Text), "\n", " ")
		if text == "" {
			continue
		}
		name := e.Author
		if nameOf != nil {
			if n := nameOf(e.Author); n != "" {
				name = n
			}
		}
		lines = append(lines, name+": "+text)
	}
	return strings.Join(lines, "\n")
}

// Span returns the time between the first and last entry.
func Span(entries []contextmem.Entry) time.Duration {
	if len(entries) < 2 {
		return 0
	}
	return max(0, entries[len(entries)-1].TS.Sub(entries[0].TS))
}

func authorSet(entries []contextmem.Entry) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.Author] = struct{}{}
	}
	return set
}

func reverse(s []contextmem.Entry) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
