package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/dispatch"
)

// EventResponse carries the replies the adapter should deliver.
type EventResponse struct {
	Replies []bot.Reply `json:"replies"`
}

// handleMessageEvent handles POST /v1/events/message.
func (s *Server) handleMessageEvent(c *fiber.Ctx) error {
	var ev bot.MessageEvent
	if err := c.BodyParser(&ev); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid message event")
	}
	if ev.GuildID == "" || ev.ChannelID == "" || ev.AuthorID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "guild_id, channel_id and author_id are required")
	}

	return s.dispatch(c, func(ctx context.Context) ([]bot.Reply, error) {
		return s.config.Bot.HandleMessage(ctx, &ev)
	})
}

// handleReactionEvent handles POST /v1/events/reaction.
func (s *Server) handleReactionEvent(c *fiber.Ctx) error {
	var ev bot.ReactionEvent
	if err := c.BodyParser(&ev); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid reaction event")
	}
	if ev.GuildID == "" || ev.PostID == "" || ev.UserID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "guild_id, post_id and user_id are required")
	}

	return s.dispatch(c, func(ctx context.Context) ([]bot.Reply, error) {
		return s.config.Bot.HandleReaction(ctx, &ev)
	})
}

// dispatch runs handle on the event worker and writes its replies.
func (s *Server) dispatch(c *fiber.Ctx, handle func(ctx context.Context) ([]bot.Reply, error)) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), s.config.EventTimeout)
	defer cancel()

	var replies []bot.Reply
	err := s.config.Pool.Submit(ctx, func(ctx context.Context) error {
		var err error
		replies, err = handle(ctx)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrQueueFull), errors.Is(err, dispatch.ErrClosed):
		return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return errorJSON(c, fiber.StatusGatewayTimeout, "event timed out")
	default:
		s.logger.Error("event handling failed", "path", c.Path(), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "event handling failed")
	}

	if replies == nil {
		replies = []bot.Reply{}
	}
	return c.JSON(EventResponse{Replies: replies})
}
