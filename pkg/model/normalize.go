package model

import (
	"maps"
	"slices"
)

// RAM tiers accepted for local model gating.
const (
	DefaultRAMGB = 4
	MaxRAMGB     = 8
)

// NormalizeRAMGB maps anything outside {2, 4, 8} to DefaultRAMGB.
func NormalizeRAMGB(n int) int {
	switch n {
	case 2, 4, 8:
		return n
	}
	return DefaultRAMGB
}

// Normalize fills missing collections and restores the card invariants on
// a freshly decoded document. It does not create default lists; those stay
// lazy.
func (d *Document) Normalize() {
	if d.Guilds == nil {
		d.Guilds = map[string]*GuildStore{}
	}
	for id, s := range d.Guilds {
		if s == nil {
			d.Guilds[id] = newGuildStore()
			continue
		}
		s.fill()
	}
}

// dropNil removes null entries a hand-edited or foreign document may carry.
func dropNil[T any](xs []*T) []*T {
	xs = slices.DeleteFunc(xs, func(x *T) bool { return x == nil })
	if xs == nil {
		return []*T{}
	}
	return xs
}

func (s *GuildStore) fill() {
	if s.Members == nil {
		s.Members = map[string]*Member{}
	}
	maps.DeleteFunc(s.Members, func(_ string, m *Member) bool { return m == nil })
	s.Boards = dropNil(s.Boards)
	s.Summaries = dropNil(s.Summaries)
	if s.ChannelOverrides == nil {
		s.ChannelOverrides = map[string]string{}
	}
	if s.AI.RAMGB != 0 {
		s.AI.RAMGB = NormalizeRAMGB(s.AI.RAMGB)
	}
	if over := len(s.Summaries) - SummaryCapacity; over > 0 {
		s.Summaries = s.Summaries[over:]
	}
	for _, b := range s.Boards {
		b.Lists = dropNil(b.Lists)
		for _, l := range b.Lists {
			l.Cards = dropNil(l.Cards)
			for _, c := range l.Cards {
				c.Progress = ClampInt(c.Progress, 0, 100)
				if c.Done || c.Progress >= 100 {
					c.SetDone(true)
				}
			}
		}
	}
}
