package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/disrello/pkg/contextmem"
)

var (
	channelKeywordsToolName    = "channel_keywords"
	channelKeywordsDescription = "Return the most frequent recent terms of a channel. Keywords live in memory and reset when the bot restarts."
)

const defaultKeywordCount = 10

// ChannelKeywordsInput represents the input arguments for the channel_keywords tool.
type ChannelKeywordsInput struct {
	GuildID   string `json:"guild_id" jsonschema:"the guild (community) id"`
	ChannelID string `json:"channel_id" jsonschema:"the channel id"`
	N         int    `json:"n,omitempty" jsonschema:"number of keywords to return (default: 10)"`
}

// ChannelKeywordsOutput represents the output of the channel_keywords tool.
type ChannelKeywordsOutput struct {
	GuildID   string   `json:"guild_id"`
	ChannelID string   `json:"channel_id"`
	Keywords  []string `json:"keywords"`
}

func (s *Server) handleChannelKeywords(_ context.Context, _ *mcp.CallToolRequest, input ChannelKeywordsInput) (*mcp.CallToolResult, ChannelKeywordsOutput, error) {
	if input.GuildID == "" || input.ChannelID == "" {
		return toolError("guild_id and channel_id are required"), ChannelKeywordsOutput{}, nil
	}
	n := input.N
	if n <= 0 {
		n = defaultKeywordCount
	}

	key := contextmem.Key{Guild: input.GuildID, Channel: input.ChannelID}
	return toolResult(s, ChannelKeywordsOutput{
		GuildID:   input.GuildID,
		ChannelID: input.ChannelID,
		Keywords:  s.config.Memory.TopKeywords(key, n),
	})
}
