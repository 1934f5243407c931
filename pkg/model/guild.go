package model

import (
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/utils"
)

// TodoBoard returns the shared TODO board, creating it along with its
// default and inbox lists when missing.
func (s *GuildStore) TodoBoard(boardName, inboxName string) *Board {
	b, ok := s.ResolveBoard(boardName)
	if !ok {
		b = s.AddBoard(boardName, "")
	}
	b.EnsureDefaultList()
	b.GetOrCreateList(inboxName)
	return b
}

// AddCardsToTodoInbox appends one card per item to the TODO board's inbox
// and returns the new card ids in item order.
func (s *GuildStore) AddCardsToTodoInbox(boardName, inboxName, author string, items []string, source string, now time.Time) []string {
	b := s.TodoBoard(boardName, inboxName)
	inbox := b.GetOrCreateList(inboxName)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		c := NewCard(it, "Captured from: "+source, author, now)
		inbox.Cards = append(inbox.Cards, c)
		ids = append(ids, c.ID)
	}
	return ids
}

// CompleteCards marks every listed card on the board done and returns the
// cards it touched.
func (b *Board) CompleteCards(ids []string) []CardRef {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var done []CardRef
	for _, l := range b.Lists {
		for _, c := range l.Cards {
			if want[c.ID] {
				c.SetDone(true)
				done = append(done, CardRef{Board: b, List: l, Card: c})
			}
		}
	}
	return done
}

// StoreSummary appends a summary and evicts the oldest entries beyond
// SummaryCapacity. It returns the new summary id.
func (s *GuildStore) StoreSummary(channelID, authorID, text string, keywords []string, now time.Time) string {
	if len(keywords) > MaxSummaryKeyword {
		keywords = keywords[:MaxSummaryKeyword]
	}
	sum := &Summary{
		ID:        NewID(KindSummary),
		ChannelID: channelID,
		AuthorID:  authorID,
		Created:   now,
		Keywords:  append([]string{}, keywords...),
		Summary:   utils.Clip(strings.TrimSpace(text), MaxSummaryLen),
	}
	s.Summaries = append(s.Summaries, sum)
	if over := len(s.Summaries) - SummaryCapacity; over > 0 {
		s.Summaries = append([]*Summary{}, s.Summaries[over:]...)
	}
	return sum.ID
}

// CardRef locates a card inside a guild.
type CardRef struct {
	Board *Board
	List  *List
	Card  *Card
}

// ResolveCardAnywhere matches ref against card ids and then titles across
// every board.
func (s *GuildStore) ResolveCardAnywhere(ref string) (CardRef, bool) {
	r := norm(ref)
	if r == "" {
		return CardRef{}, false
	}
	for _, b := range s.Boards {
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				if norm(c.ID) == r {
					return CardRef{b, l, c}, true
				}
			}
		}
	}
	for _, b := range s.Boards {
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				if norm(c.Title) == r {
					return CardRef{b, l, c}, true
				}
			}
		}
	}
	return CardRef{}, false
}

// ResolveListAnywhere matches ref against list ids and then names across
// every board.
func (s *GuildStore) ResolveListAnywhere(ref string) (*Board, *List, bool) {
	for _, b := range s.Boards {
		if l, ok := b.ResolveList(ref); ok && norm(l.ID) == norm(ref) {
			return b, l, true
		}
	}
	for _, b := range s.Boards {
		if l, ok := b.ResolveList(ref); ok {
			return b, l, true
		}
	}
	return nil, nil, false
}

// RemoveCard deletes a specific card pointer from its list.
func (l *List) RemoveCard(c *Card) bool {
	for i, x := range l.Cards {
		if x == c {
			l.Cards = append(l.Cards[:i], l.Cards[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveList deletes a list from the board by pointer.
func (b *Board) RemoveList(target *List) bool {
	for i, l := range b.Lists {
		if l == target {
			b.Lists = append(b.Lists[:i], b.Lists[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBoard deletes a board from the store by pointer.
func (s *GuildStore) RemoveBoard(target *Board) bool {
	for i, b := range s.Boards {
		if b == target {
			s.Boards = append(s.Boards[:i], s.Boards[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteCardsAssignedTo removes every card assigned to user and returns the
// number removed.
func (s *GuildStore) DeleteCardsAssignedTo(user string) int {
	removed := 0
	for _, b := range s.Boards {
		for _, l := range b.Lists {
			keep := l.Cards[:0]
			for _, c := range l.Cards {
				if c.AssignedTo == user {
					removed++
					continue
				}
				keep = append(keep, c)
			}
			l.Cards = keep
		}
	}
	return removed
}

// CardsAssignedTo lists every card assigned to user in board order.
func (s *GuildStore) CardsAssignedTo(user string) []CardRef {
	var out []CardRef
	for _, b := range s.Boards {
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				if c.AssignedTo == user {
					out = append(out, CardRef{b, l, c})
				}
			}
		}
	}
	return out
}
