package bot

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/parsing"
	"github.com/papercomputeco/disrello/pkg/utils"
)

const (
	filterAssignedMe = "assigned:me"
	filterFromMe     = "from:me"

	usageSearch = "!** search <text>` (optional: `assigned:me`, `from:me`)"
)

// CardHit is a card matched by Search with its location.
type CardHit struct {
	BoardID   string      `json:"board_id"`
	BoardName string      `json:"board_name"`
	ListID    string      `json:"list_id"`
	ListName  string      `json:"list_name"`
	Card      *model.Card `json:"card"`
}

// SearchResult holds the cards and summaries matching a query.
type SearchResult struct {
	Query     string           `json:"query"`
	Cards     []CardHit        `json:"cards"`
	Summaries []*model.Summary `json:"summaries"`
}

// Search matches query as a case-insensitive substring of card titles and
// descriptions and of stored summaries. The assigned:me and from:me filters
// restrict cards to those assigned to or created by userID. An empty query
// after filter removal matches everything.
func Search(store *model.GuildStore, query, userID string) *SearchResult {
	low := strings.ToLower(query)
	assignedMe := strings.Contains(low, filterAssignedMe)
	fromMe := strings.Contains(low, filterFromMe)

	needle := strings.NewReplacer(filterAssignedMe, "", filterFromMe, "").Replace(low)
	needle = strings.TrimSpace(needle)

	res := &SearchResult{Query: query, Cards: []CardHit{}, Summaries: []*model.Summary{}}
	for _, b := range store.Boards {
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				hay := strings.ToLower(c.Title + "\n" + c.Desc)
				if needle != "" && !strings.Contains(hay, needle) {
					continue
				}
				if assignedMe && c.AssignedTo != userID {
					continue
				}
				if fromMe && c.CreatedBy != userID {
					continue
				}
				res.Cards = append(res.Cards, CardHit{
					BoardID:   b.ID,
					BoardName: b.Name,
					ListID:    l.ID,
					ListName:  l.Name,
					Card:      c,
				})
			}
		}
	}
	for _, s := range store.Summaries {
		if needle != "" && !strings.Contains(strings.ToLower(s.Summary), needle) {
			continue
		}
		res.Summaries = append(res.Summaries, s)
	}
	return res
}

// handleSearch serves `!** search <text>` and `!search <text>`.
func (b *Bot) handleSearch(t *turn) error {
	query, ok := searchQuery(t.msg.Text)
	if !ok {
		return nil
	}
	if query == "" {
		return usage(usageSearch)
	}
	store, err := t.store()
	if err != nil {
		return err
	}
	t.show(searchView(Search(store, query, t.msg.AuthorID)))
	return nil
}

func searchQuery(text string) (string, bool) {
	if sc, ok := parsing.ParseSystemCommand(text); ok {
		if sc.Head != "search" {
			return "", false
		}
		return sc.Rest(), true
	}
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "!search") {
		return "", false
	}
	return strings.TrimSpace(text[len(fields[0]):]), true
}

func searchView(res *SearchResult) *View {
	v := &View{
		Kind:        ViewSearch,
		Title:       "🔎 Search results",
		Description: fmt.Sprintf("Query: `%s`", res.Query),
	}

	cards := make([]string, 0, len(res.Cards))
	for _, h := range res.Cards {
		cards = append(cards, fmt.Sprintf("- `%s` **%s** (board: %s, list: %s)",
			h.Card.ID, utils.Clip(h.Card.Title, 80), h.BoardName, h.ListName))
	}
	sums := make([]string, 0, len(res.Summaries))
	for _, s := range res.Summaries {
		sums = append(sums, fmt.Sprintf("- `%s` (channel `%s`) keywords: %s",
			s.ID, s.ChannelID, utils.Clip(strings.Join(s.Keywords, ", "), 120)))
	}

	v.add(fmt.Sprintf("Cards (%d)", len(cards)), orNone(cards, "*No matching cards*"), false)
	v.add(fmt.Sprintf("Summaries (%d)", len(sums)), orNone(sums, "*No matching summaries*"), false)
	return v
}

func orNone(lines []string, none string) string {
	if len(lines) == 0 {
		return none
	}
	return strings.Join(lines, "\n")
}
