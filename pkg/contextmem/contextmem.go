// Package contextmem keeps the rolling per-channel message buffer and the
// channel keyword table. State lives for the process lifetime and is never
// persisted.
package contextmem

import (
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBufferLimit caps each channel buffer.
	DefaultBufferLimit = 80

	// DefaultKeywordLimit is how many terms survive each keyword update.
	DefaultKeywordLimit = 60

	// termsPerMessage bounds how many terms one message contributes.
	termsPerMessage = 50
)

var wordRe = regexp.MustCompile(`[a-zA-Z0-9_]{3,}`)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the a an and or but if then so to of in on for with as at by from is are am was were
		be been being it this that these those i you we they he she me my your our their them him her
		not no yes ok okay lol lmao bro mate pls please yeah yep nah idk imo im dont can't cant won't wont`) {
		stopwords[w] = struct{}{}
	}
}

// Entry is one remembered message.
type Entry struct {
	Author string
	Text   string
	TS     time.Time
}

// Key scopes memory to a channel within a community.
type Key struct {
	Guild   string
	Channel string
}

// Memory is the process-wide context store. It is safe for concurrent use.
type Memory struct {
	mu           sync.Mutex
	limit        int
	keywordLimit int
	buffers      map[Key][]Entry
	keywords     map[Key]*counter
}

// New returns an empty Memory whose buffers hold at most limit entries.
func New(limit int) *Memory {
	m := &Memory{
		limit:        DefaultBufferLimit,
		keywordLimit: DefaultKeywordLimit,
		buffers:      map[Key][]Entry{},
		keywords:     map[Key]*counter{},
	}
	if limit > 0 {
		m.limit = limit
	}
	return m
}

// SetLimit changes the buffer cap. Existing buffers shrink on their next push.
func (m *Memory) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = limit
}

// Record appends a message to the channel buffer and folds its terms into
// the keyword table.
func (m *Memory) Record(key Key, author, text string, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := append(m.buffers[key], Entry{Author: author, Text: text, TS: ts})
	if over := len(buf) - m.limit; over > 0 {
		buf = append([]Entry(nil), buf[over:]...)
	}
	m.buffers[key] = buf

	terms := Terms(text)
	if len(terms) == 0 {
		return
	}
	if len(terms) > termsPerMessage {
		terms = terms[:termsPerMessage]
	}
	c, ok := m.keywords[key]
	if !ok {
		c = &counter{counts: map[string]int{}}
		m.keywords[key] = c
	}
	c.add(terms)
	c.truncate(m.keywordLimit)
}

// Entries returns a copy of the channel buffer, oldest first.
func (m *Memory) Entries(key Key) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.buffers[key])
}

// Recent returns up to the last n entries of the channel buffer.
func (m *Memory) Recent(key Key, n int) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := m.buffers[key]
	if n <= 0 {
		return nil
	}
	if len(buf) > n {
		buf = buf[len(buf)-n:]
	}
	return slices.Clone(buf)
}

// TopKeywords returns up to n of the channel's most frequent terms, n
// floored to 1. Ties keep first-insertion order.
func (m *Memory) TopKeywords(key Key, n int) []string {
	n = max(1, n)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.keywords[key]
	if !ok {
		return []string{}
	}
	return c.top(n)
}

// Terms extracts the keyword candidates from text: lowercase runs of at
// least three word characters, minus stopwords and pure numbers.
func Terms(text string) []string {
	raw := wordRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, stop := stopwords[t]; stop {
			continue
		}
		if isDigits(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
