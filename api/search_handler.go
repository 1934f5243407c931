package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/model"
)

const defaultKeywords = 10

// KeywordsResponse lists a channel's most frequent terms.
type KeywordsResponse struct {
	GuildID   string   `json:"guild_id"`
	ChannelID string   `json:"channel_id"`
	Keywords  []string `json:"keywords"`
}

// handleSearchEndpoint handles GET /v1/guilds/:guild/search.
// Query parameters:
//   - q (required): the search text, may carry assigned:me / from:me
//   - user (optional): the member the filters refer to
func (s *Server) handleSearchEndpoint(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return errorJSON(c, fiber.StatusBadRequest, "q parameter is required")
	}

	guild := c.Params("guild")
	store, err := s.loadGuild(c, guild)
	if err != nil {
		return s.loadFailed(c, err)
	}
	if store == nil {
		store = model.NewDocument().Guild(guild)
	}
	return c.JSON(bot.Search(store, query, c.Query("user")))
}

// handleChannelKeywords handles GET /v1/guilds/:guild/channels/:channel/keywords.
// Keywords come from in-process memory and reset on restart.
func (s *Server) handleChannelKeywords(c *fiber.Ctx) error {
	n := defaultKeywords
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return errorJSON(c, fiber.StatusBadRequest, "n must be a positive integer")
		}
		n = parsed
	}

	key := contextmem.Key{Guild: c.Params("guild"), Channel: c.Params("channel")}
	keywords := s.config.Bot.Memory().TopKeywords(key, n)
	if keywords == nil {
		keywords = []string{}
	}
	return c.JSON(KeywordsResponse{GuildID: key.Guild, ChannelID: key.Channel, Keywords: keywords})
}
