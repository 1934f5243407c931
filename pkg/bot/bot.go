// Package bot turns chat events into board, list and card changes. A Bot
// owns no transport: adapters deliver MessageEvent and ReactionEvent values
// and send back the returned replies.
//
// Each message runs through every handler in a fixed order (commands, todo
// capture, ai, summarise, search, settings). Handlers share one loaded
// document per event, which is saved once at the end if anything changed.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/llm"
	"github.com/papercomputeco/disrello/pkg/logger"
	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage"
)

// Bot processes chat events. Callers must deliver events one at a time;
// see pkg/dispatch.
type Bot struct {
	driver    storage.Driver
	generator llm.Generator
	memory    *contextmem.Memory
	publisher eventstream.Publisher
	history   HistoryFetcher
	logger    *slog.Logger
	now       func() time.Time

	settings atomic.Pointer[Settings]
	state    *state
}

type handler func(t *turn) error

// New creates a Bot.
func New(cfg *Config) (*Bot, error) {
	if cfg.Driver == nil {
		return nil, errors.New("storage driver is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("llm generator is required")
	}

	b := &Bot{
		driver:    cfg.Driver,
		generator: cfg.Generator,
		memory:    cfg.Memory,
		publisher: cfg.Publisher,
		history:   cfg.History,
		logger:    cfg.Logger,
		now:       cfg.Now,
		state:     newState(),
	}
	if b.logger == nil {
		b.logger = logger.Nop()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.memory == nil {
		b.memory = contextmem.New(cfg.Settings.ContextLimit)
	}

	s := cfg.Settings
	b.settings.Store(&s)
	return b, nil
}

// Settings returns the active settings.
func (b *Bot) Settings() Settings {
	return *b.settings.Load()
}

// UpdateSettings swaps the active settings. Events already in flight keep
// the settings they started with.
func (b *Bot) UpdateSettings(s Settings) {
	b.memory.SetLimit(s.ContextLimit)
	b.settings.Store(&s)
	b.logger.Info("bot settings updated",
		"provider", s.Policy.DefaultProvider,
		"todo_board", s.TodoBoardName,
	)
}

// Memory exposes the channel context for read-only consumers.
func (b *Bot) Memory() *contextmem.Memory {
	return b.memory
}

// HandleMessage runs msg through every handler and returns the replies.
// Only persistence failures are returned as errors; user-facing failures
// become replies.
func (b *Bot) HandleMessage(ctx context.Context, msg *MessageEvent) ([]Reply, error) {
	if msg == nil || msg.FromBot || msg.GuildID == "" {
		return nil, nil
	}
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.TS.IsZero() {
		msg.TS = b.now()
	}

	t := b.newTurn(ctx, msg.GuildID)
	t.msg = msg
	t.src = eventstream.Source{GuildID: msg.GuildID, ChannelID: msg.ChannelID, ActorID: msg.AuthorID}
	b.state.rememberName(msg.GuildID, msg.AuthorID, msg.AuthorName)

	for _, h := range []handler{
		b.handleCommands,
		b.handleTodoCapture,
		b.handleAI,
		b.handleSummarise,
		b.handleSearch,
		b.handleGuildSettings,
	} {
		if t.consumed {
			break
		}
		if err := h(t); err != nil {
			be, ok := AsError(err)
			if !ok {
				return t.replies, err
			}
			t.say(be.Text())
		}
	}

	return t.finish()
}

// HandleReaction completes the cards of a tracked capture post when it
// receives a ✅.
func (b *Bot) HandleReaction(ctx context.Context, ev *ReactionEvent) ([]Reply, error) {
	if ev == nil || ev.FromBot || ev.Emoji != "✅" {
		return nil, nil
	}
	post := b.state.claimPost(ev.PostID)
	if post == nil {
		return nil, nil
	}

	guild := post.guild
	if guild == "" {
		guild = ev.GuildID
	}
	t := b.newTurn(ctx, guild)
	t.src = eventstream.Source{GuildID: guild, ChannelID: ev.ChannelID, ActorID: ev.UserID}

	store, err := t.store()
	if err != nil {
		return nil, err
	}
	board, ok := store.ResolveBoard(t.settings.TodoBoardName)
	if !ok {
		return nil, nil
	}

	for _, ref := range board.CompleteCards(post.cardIDs) {
		t.emitCard(eventstream.EventTypeCardUpdated, ref)
	}
	t.touch()
	t.replies = append(t.replies, Reply{ChannelID: ev.ChannelID, Text: "✅ Marked all linked TODO cards done."})
	return t.finish()
}

// turn is the per-event working set.
type turn struct {
	ctx      context.Context
	bot      *Bot
	settings *Settings
	now      time.Time
	guild    string
	msg      *MessageEvent
	src      eventstream.Source

	doc      *model.Document
	dirty    bool
	consumed bool
	replies  []Reply
	events   []*eventstream.Event
}

func (b *Bot) newTurn(ctx context.Context, guild string) *turn {
	return &turn{
		ctx:      ctx,
		bot:      b,
		settings: b.settings.Load(),
		now:      b.now(),
		guild:    guild,
		src:      eventstream.Source{GuildID: guild},
	}
}

// store loads the document on first use and returns the event's guild.
func (t *turn) store() (*model.GuildStore, error) {
	if t.doc == nil {
		doc, err := t.bot.driver.Load(t.ctx)
		if err != nil {
			return nil, fmt.Errorf("loading document: %w", err)
		}
		t.doc = doc
	}
	return t.doc.Guild(t.guild), nil
}

func (t *turn) touch() { t.dirty = true }

func (t *turn) say(text string) {
	t.replies = append(t.replies, Reply{Text: text})
}

func (t *turn) sayf(format string, args ...any) {
	t.say(fmt.Sprintf(format, args...))
}

func (t *turn) show(v *View) {
	t.replies = append(t.replies, Reply{View: v})
}

func (t *turn) emitCard(eventType string, ref model.CardRef) {
	t.events = append(t.events, eventstream.NewCardEvent(eventType, t.src, ref, t.now))
}

func (t *turn) emitSummary(sum *model.Summary) {
	t.events = append(t.events, eventstream.NewSummaryEvent(t.src, sum, t.now))
}

// finish saves a changed document and publishes the collected events.
func (t *turn) finish() ([]Reply, error) {
	if t.dirty && t.doc != nil {
		if err := t.bot.driver.Save(t.ctx, t.doc); err != nil {
			return t.replies, fmt.Errorf("saving document: %w", err)
		}
	}
	if t.bot.publisher == nil {
		return t.replies, nil
	}
	for _, ev := range t.events {
		if err := t.bot.publisher.Publish(t.ctx, ev); err != nil {
			t.bot.logger.Warn("failed to publish event",
				"event_type", ev.EventType,
				"event_id", ev.EventID,
				"error", err,
			)
		}
	}
	return t.replies, nil
}

func (t *turn) channelKey() channelKey {
	return channelKey{guild: t.msg.GuildID, channel: t.msg.ChannelID}
}

func (t *turn) userKey() userKey {
	return userKey{guild: t.msg.GuildID, channel: t.msg.ChannelID, user: t.msg.AuthorID}
}

func (t *turn) memoryKey() contextmem.Key {
	return contextmem.Key{Guild: t.msg.GuildID, Channel: t.msg.ChannelID}
}

// displayName resolves an author id to the best known name.
func (t *turn) displayName(id string) string {
	if n := t.bot.state.name(t.guild, id); n != "" {
		return n
	}
	if t.doc != nil {
		if m, ok := t.doc.Guild(t.guild).Members[id]; ok && m.Name != "" {
			return m.Name
		}
	}
	return id
}

// llmContext bounds one provider call by the provider's timeout.
func (t *turn) llmContext(providerName string) (context.Context, context.CancelFunc) {
	return context.WithTimeout(t.ctx, t.settings.timeout(providerName))
}
