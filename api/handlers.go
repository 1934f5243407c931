package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/disrello/pkg/model"
)

// BoardSummary is one row of the board listing.
type BoardSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by,omitempty"`
	Lists     int    `json:"lists"`
	Cards     int    `json:"cards"`
	Done      int    `json:"done"`
}

// BoardsResponse lists a guild's boards.
type BoardsResponse struct {
	GuildID string         `json:"guild_id"`
	Boards  []BoardSummary `json:"boards"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListBoards returns every board of a guild with card counts.
func (s *Server) handleListBoards(c *fiber.Ctx) error {
	guild := c.Params("guild")
	store, err := s.loadGuild(c, guild)
	if err != nil {
		return s.loadFailed(c, err)
	}

	resp := BoardsResponse{GuildID: guild, Boards: []BoardSummary{}}
	if store == nil {
		return c.JSON(resp)
	}
	for _, b := range store.Boards {
		row := BoardSummary{ID: b.ID, Name: b.Name, CreatedBy: b.CreatedBy, Lists: len(b.Lists)}
		for _, l := range b.Lists {
			row.Cards += len(l.Cards)
			for _, card := range l.Cards {
				if card.Done {
					row.Done++
				}
			}
		}
		resp.Boards = append(resp.Boards, row)
	}
	return c.JSON(resp)
}

// handleGetBoard returns one board, resolved by id first and then by name.
func (s *Server) handleGetBoard(c *fiber.Ctx) error {
	store, err := s.loadGuild(c, c.Params("guild"))
	if err != nil {
		return s.loadFailed(c, err)
	}
	if store == nil {
		return errorJSON(c, fiber.StatusNotFound, "board not found")
	}
	b, ok := store.ResolveBoard(c.Params("ref"))
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "board not found")
	}
	return c.JSON(b)
}

// loadGuild returns the guild's store, or nil when the guild has no data
// yet.
func (s *Server) loadGuild(c *fiber.Ctx, id string) (*model.GuildStore, error) {
	doc, err := s.driver.Load(c.Context())
	if err != nil {
		return nil, err
	}
	if _, ok := doc.Guilds[id]; !ok {
		return nil, nil
	}
	return doc.Guild(id), nil
}

func (s *Server) loadFailed(c *fiber.Ctx, err error) error {
	s.logger.Error("failed to load document", "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "failed to load document")
}
