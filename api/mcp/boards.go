package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/disrello/pkg/model"
)

var (
	listBoardsToolName    = "list_boards"
	listBoardsDescription = "List the task boards of a guild with their lists and card counts."
)

// GuildInput selects a guild.
type GuildInput struct {
	GuildID string `json:"guild_id" jsonschema:"the guild (community) id"`
}

// ListSummary is one list of a board.
type ListSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards int    `json:"cards"`
	Done  int    `json:"done"`
}

// BoardSummary is one board and its lists.
type BoardSummary struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Lists []ListSummary `json:"lists"`
}

// ListBoardsOutput is the output of the list_boards tool.
type ListBoardsOutput struct {
	GuildID string         `json:"guild_id"`
	Boards  []BoardSummary `json:"boards"`
	Count   int            `json:"count"`
}

func (s *Server) handleListBoards(ctx context.Context, _ *mcp.CallToolRequest, input GuildInput) (*mcp.CallToolResult, ListBoardsOutput, error) {
	if input.GuildID == "" {
		return toolError("guild_id is required"), ListBoardsOutput{}, nil
	}
	s.config.Logger.Debug("MCP list_boards request", "guild_id", input.GuildID)

	store, err := s.loadGuild(ctx, input.GuildID)
	if err != nil {
		return toolError("Failed to load boards: %v", err), ListBoardsOutput{}, nil
	}

	out := ListBoardsOutput{GuildID: input.GuildID, Boards: []BoardSummary{}}
	for _, b := range store.Boards {
		row := BoardSummary{ID: b.ID, Name: b.Name, Lists: make([]ListSummary, 0, len(b.Lists))}
		for _, l := range b.Lists {
			ls := ListSummary{ID: l.ID, Name: l.Name, Cards: len(l.Cards)}
			for _, c := range l.Cards {
				if c.Done {
					ls.Done++
				}
			}
			row.Lists = append(row.Lists, ls)
		}
		out.Boards = append(out.Boards, row)
	}
	out.Count = len(out.Boards)
	return toolResult(s, out)
}

// loadGuild returns the guild's store; an unknown guild is empty.
func (s *Server) loadGuild(ctx context.Context, id string) (*model.GuildStore, error) {
	doc, err := s.config.Driver.Load(ctx)
	if err != nil {
		s.config.Logger.Error("failed to load document", "error", err)
		return nil, err
	}
	return doc.Guild(id), nil
}
