package bot

import (
	"log/slog"
	"time"

	"github.com/papercomputeco/disrello/pkg/burst"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/llm"
	"github.com/papercomputeco/disrello/pkg/llm/provider"
	"github.com/papercomputeco/disrello/pkg/llm/router"
	"github.com/papercomputeco/disrello/pkg/storage"
)

// Config wires a Bot to its collaborators.
type Config struct {
	// Driver persists the document. Required.
	Driver storage.Driver

	// Generator serves every LLM call. Required.
	Generator llm.Generator

	// Memory is the rolling channel context. A fresh one sized by
	// Settings.ContextLimit is created when nil.
	Memory *contextmem.Memory

	// Publisher receives domain events after each successful save. Events
	// are dropped when nil.
	Publisher eventstream.Publisher

	// History backs the summarise fallback scan. Optional.
	History HistoryFetcher

	Logger *slog.Logger

	// Now overrides the clock, mostly for tests.
	Now func() time.Time

	Settings Settings
}

// Channels are the configured channel ids per role. Guild overrides take
// precedence.
type Channels struct {
	Todo     string
	AIListen string
	System   string
}

// Settings are the hot-reloadable behavior knobs.
type Settings struct {
	TodoBoardName string
	TodoInboxName string
	Channels      Channels

	AICooldown                    time.Duration
	AutoCaptureTasksFromAI        bool
	ForwardTodosFromOtherChannels bool
	PendingTTL                    time.Duration

	ContextLimit    int
	ContextMessages int
	Temperature     float64

	Summarise       burst.Params
	Taskify         burst.Params
	ScanLimit       int
	MinContentChars int

	Policy   router.Policy
	Timeouts map[string]time.Duration
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.NewDefaultConfig())
}

// SettingsFromConfig derives bot settings from a resolved configuration.
func SettingsFromConfig(c *config.Config) Settings {
	return Settings{
		TodoBoardName: c.Todo.BoardName,
		TodoInboxName: c.Todo.InboxListName,
		Channels: Channels{
			Todo:     c.Channels.Todo,
			AIListen: c.Channels.AIListen,
			System:   c.Channels.System,
		},
		AICooldown:                    c.Behavior.AICooldown(),
		AutoCaptureTasksFromAI:        c.Behavior.AutoCaptureTasksFromAI,
		ForwardTodosFromOtherChannels: c.Behavior.ForwardTodosFromOtherChannels,
		PendingTTL:                    c.Behavior.PendingTTL(),
		ContextLimit:                  c.Behavior.ContextLimit,
		ContextMessages:               c.Ollama.ContextMessages,
		Temperature:                   c.Ollama.Temperature,
		Summarise:                     c.Summarise.Params(),
		Taskify:                       c.Taskify.Params(),
		ScanLimit:                     c.Summarise.ChannelScanLimit,
		MinContentChars:               c.Summarise.MinContentChars,
		Policy:                        c.RouterPolicy(),
		Timeouts: map[string]time.Duration{
			provider.Ollama: c.Ollama.Timeout(),
			provider.OpenAI: c.OpenAI.Timeout(),
		},
	}
}

func (s *Settings) timeout(providerName string) time.Duration {
	if d, ok := s.Timeouts[providerName]; ok && d > 0 {
		return d
	}
	return 45 * time.Second
}
