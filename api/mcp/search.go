package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/disrello/pkg/bot"
)

var (
	searchCardsToolName    = "search_cards"
	searchCardsDescription = "Search the cards and stored channel summaries of a guild. Matches are case-insensitive substrings of card titles, descriptions and summary text."
)

// SearchCardsInput represents the input arguments for the search_cards tool.
type SearchCardsInput struct {
	GuildID string `json:"guild_id" jsonschema:"the guild (community) id"`
	Query   string `json:"query" jsonschema:"the text to look for"`
}

// SearchCardsOutput represents the output of the search_cards tool.
type SearchCardsOutput struct {
	Query     string          `json:"query"`
	Cards     []CardResult    `json:"cards"`
	Summaries []SummaryResult `json:"summaries"`
	Count     int             `json:"count"`
}

// CardResult is a matching card and where it lives.
type CardResult struct {
	BoardID    string `json:"board_id"`
	BoardName  string `json:"board_name"`
	ListName   string `json:"list_name"`
	CardID     string `json:"card_id"`
	Title      string `json:"title"`
	Desc       string `json:"desc,omitempty"`
	Done       bool   `json:"done"`
	Progress   int    `json:"progress"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

// SummaryResult is a matching stored summary.
type SummaryResult struct {
	ID        string   `json:"id"`
	ChannelID string   `json:"channel_id"`
	Keywords  []string `json:"keywords"`
	Summary   string   `json:"summary"`
}

func (s *Server) handleSearchCards(ctx context.Context, _ *mcp.CallToolRequest, input SearchCardsInput) (*mcp.CallToolResult, SearchCardsOutput, error) {
	if input.GuildID == "" || input.Query == "" {
		return toolError("guild_id and query are required"), SearchCardsOutput{}, nil
	}
	s.config.Logger.Debug("MCP search_cards request",
		"guild_id", input.GuildID,
		"query", input.Query,
	)

	store, err := s.loadGuild(ctx, input.GuildID)
	if err != nil {
		return toolError("Failed to search: %v", err), SearchCardsOutput{}, nil
	}

	// No caller identity over MCP, so assigned:me and from:me match nobody.
	res := bot.Search(store, input.Query, "")
	out := SearchCardsOutput{
		Query:     input.Query,
		Cards:     make([]CardResult, 0, len(res.Cards)),
		Summaries: make([]SummaryResult, 0, len(res.Summaries)),
		Count:     len(res.Cards),
	}
	for _, hit := range res.Cards {
		out.Cards = append(out.Cards, CardResult{
			BoardID:    hit.BoardID,
			BoardName:  hit.BoardName,
			ListName:   hit.ListName,
			CardID:     hit.Card.ID,
			Title:      hit.Card.Title,
			Desc:       hit.Card.Desc,
			Done:       hit.Card.Done,
			Progress:   hit.Card.Progress,
			AssignedTo: hit.Card.AssignedTo,
		})
	}
	for _, sum := range res.Summaries {
		out.Summaries = append(out.Summaries, SummaryResult{
			ID:        sum.ID,
			ChannelID: sum.ChannelID,
			Keywords:  sum.Keywords,
			Summary:   sum.Summary,
		})
	}
	return toolResult(s, out)
}
