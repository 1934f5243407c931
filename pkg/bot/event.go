package bot

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/model"
)

// MessageEvent is one chat message delivered by a platform adapter.
type MessageEvent struct {
	// ID is the platform message id, used as the "before" cursor of a
	// history scan.
	ID string `json:"id,omitempty"`

	GuildID     string `json:"guild_id"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name,omitempty"`

	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`

	Text string    `json:"text"`
	TS   time.Time `json:"ts,omitzero"`

	// Mentions are the user ids mentioned in Text, in order.
	Mentions []string `json:"mentions,omitempty"`
	// ChannelMentions are the channel ids mentioned in Text, in order.
	ChannelMentions []string `json:"channel_mentions,omitempty"`

	// BotID is the bot's own user id on the platform. A message mentioning
	// it is treated as an AI prompt.
	BotID string `json:"bot_id,omitempty"`

	// IsAdmin marks a privileged member.
	IsAdmin bool `json:"is_admin,omitempty"`
	// FromBot marks messages authored by a bot, which are ignored.
	FromBot bool `json:"from_bot,omitempty"`
}

// Author returns the message author as a model.User.
func (m *MessageEvent) Author() model.User {
	return model.User{ID: m.AuthorID, Name: m.AuthorName}
}

func (m *MessageEvent) mentionsBot() bool {
	return m.BotID != "" && slices.Contains(m.Mentions, m.BotID)
}

// withoutBotMention strips the bot's mention tokens from text.
func (m *MessageEvent) withoutBotMention(text string) string {
	if m.BotID == "" {
		return strings.TrimSpace(text)
	}
	text = strings.ReplaceAll(text, "<@"+m.BotID+">", "")
	text = strings.ReplaceAll(text, "<@!"+m.BotID+">", "")
	return strings.TrimSpace(text)
}

// ReactionEvent is an emoji reaction added to a message the bot posted.
type ReactionEvent struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	// PostID is the Reply.PostID the bot issued for the reacted message.
	PostID  string `json:"post_id"`
	UserID  string `json:"user_id"`
	Emoji   string `json:"emoji"`
	FromBot bool   `json:"from_bot,omitempty"`
}

// Reply is one outgoing message.
type Reply struct {
	// ChannelID is the destination. Empty means the origin channel.
	ChannelID string `json:"channel_id,omitempty"`
	Text      string `json:"text,omitempty"`
	View      *View  `json:"view,omitempty"`
	// PostID identifies a tracked post. Reactions on the delivered message
	// must be reported back with this id.
	PostID string `json:"post_id,omitempty"`
	// Reactions the adapter should add to the delivered message.
	Reactions []string `json:"reactions,omitempty"`
}

// HistoryFetcher reads past channel messages when the in-memory context is
// too thin to summarise. Implementations return at most limit entries,
// oldest first, excluding bot-authored messages.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, guildID, channelID, beforeID string, limit int) ([]contextmem.Entry, error)
}
