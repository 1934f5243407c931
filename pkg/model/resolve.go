package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/utils"
)

// Guild returns the store for a community, creating it on first reference.
func (d *Document) Guild(id string) *GuildStore {
	if d.Guilds == nil {
		d.Guilds = map[string]*GuildStore{}
	}
	s, ok := d.Guilds[id]
	if !ok || s == nil {
		s = newGuildStore()
		d.Guilds[id] = s
	}
	s.fill()
	return s
}

// ResolveBoard matches ref against board ids first, then names. Both
// comparisons are case-insensitive and exact.
func (s *GuildStore) ResolveBoard(ref string) (*Board, bool) {
	r := norm(ref)
	if r == "" {
		return nil, false
	}
	for _, b := range s.Boards {
		if norm(b.ID) == r {
			return b, true
		}
	}
	for _, b := range s.Boards {
		if norm(b.Name) == r {
			return b, true
		}
	}
	return nil, false
}

// AddBoard appends a fresh board with its default list. Name uniqueness is
// the caller's concern.
func (s *GuildStore) AddBoard(name, createdBy string) *Board {
	b := &Board{
		ID:        NewID(KindBoard),
		Name:      utils.Clip(strings.TrimSpace(name), MaxTitleLen),
		Lists:     []*List{},
		CreatedBy: createdBy,
	}
	b.EnsureDefaultList()
	s.Boards = append(s.Boards, b)
	return b
}

// GetOrCreateBoard resolves ref or creates a board named after it.
func (s *GuildStore) GetOrCreateBoard(ref, createdBy string) (*Board, bool) {
	if b, ok := s.ResolveBoard(ref); ok {
		b.EnsureDefaultList()
		return b, false
	}
	return s.AddBoard(ref, createdBy), true
}

// ResolveList matches ref against list ids first, then names.
func (b *Board) ResolveList(ref string) (*List, bool) {
	r := norm(ref)
	if r == "" {
		return nil, false
	}
	for _, l := range b.Lists {
		if norm(l.ID) == r {
			return l, true
		}
	}
	for _, l := range b.Lists {
		if norm(l.Name) == r {
			return l, true
		}
	}
	return nil, false
}

// EnsureDefaultList returns the board's "default" list, creating it if
// missing. Calling it repeatedly never creates a second one.
func (b *Board) EnsureDefaultList() *List {
	for _, l := range b.Lists {
		if norm(l.Name) == DefaultListName {
			return l
		}
	}
	l := &List{ID: NewID(KindList), Name: DefaultListName, Cards: []*Card{}}
	b.Lists = append(b.Lists, l)
	return l
}

// GetOrCreateList maps a blank or "default" name to the default list and
// otherwise resolves or creates a list with the trimmed name.
func (b *Board) GetOrCreateList(name string) *List {
	if norm(name) == "" || norm(name) == DefaultListName {
		return b.EnsureDefaultList()
	}
	if l, ok := b.ResolveList(name); ok {
		return l
	}
	l := &List{
		ID:    NewID(KindList),
		Name:  utils.Clip(strings.TrimSpace(name), MaxTitleLen),
		Cards: []*Card{},
	}
	b.Lists = append(b.Lists, l)
	return l
}

// FindCard looks for a card by id across all lists in board order, then by
// title.
func (b *Board) FindCard(ref string) (*List, *Card, bool) {
	r := norm(ref)
	if r == "" {
		return nil, nil, false
	}
	for _, l := range b.Lists {
		for _, c := range l.Cards {
			if norm(c.ID) == r {
				return l, c, true
			}
		}
	}
	for _, l := range b.Lists {
		for _, c := range l.Cards {
			if norm(c.Title) == r {
				return l, c, true
			}
		}
	}
	return nil, nil, false
}

// DeleteCard removes the first card whose id matches, scanning lists in
// board order. It reports whether a card was removed.
func (b *Board) DeleteCard(id string) bool {
	r := norm(id)
	for _, l := range b.Lists {
		for i, c := range l.Cards {
			if norm(c.ID) == r {
				l.Cards = append(l.Cards[:i], l.Cards[i+1:]...)
				return true
			}
		}
	}
	return false
}

// UpsertMember records a sighting of user and returns its entry.
func (s *GuildStore) UpsertMember(u User, now time.Time) *Member {
	m, ok := s.Members[u.ID]
	if !ok || m == nil {
		m = &Member{JoinedTS: now}
		s.Members[u.ID] = m
	}
	switch {
	case u.Name != "":
		m.Name = u.Name
	case m.Name == "":
		m.Name = u.ID
	}
	if m.JoinedTS.IsZero() {
		m.JoinedTS = now
	}
	m.LastSeenTS = now
	return m
}

// PersonalBoard returns the user's inbox board, creating one named
// "<display> — Inbox" when the member has none or it no longer resolves.
// Name collisions get " (2)", " (3)" and so on.
func (s *GuildStore) PersonalBoard(u User, now time.Time) *Board {
	m := s.UpsertMember(u, now)
	if m.DefaultBoardID != "" {
		if b, ok := s.ResolveBoard(m.DefaultBoardID); ok {
			b.EnsureDefaultList()
			return b
		}
	}

	base := m.Name + " — Inbox"
	name := base
	for n := 2; s.boardNameTaken(name); n++ {
		name = base + " (" + strconv.Itoa(n) + ")"
	}

	b := s.AddBoard(name, "")
	m.DefaultBoardID = b.ID
	return b
}

func (s *GuildStore) boardNameTaken(name string) bool {
	r := norm(name)
	for _, b := range s.Boards {
		if norm(b.Name) == r {
			return true
		}
	}
	return false
}
