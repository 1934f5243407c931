// Package api provides the HTTP gateway that feeds chat events to the bot
// and serves read-only views of the stored boards.
package api

import (
	"net/http"
	"time"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/dispatch"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// Bot handles dispatched message and reaction events.
	Bot *bot.Bot

	// Pool serializes event handling. Events are rejected with 503 when it
	// is full.
	Pool *dispatch.Pool

	// MCPHandler is mounted on /mcp when set.
	MCPHandler http.Handler

	// EventTimeout bounds how long a request waits for its event to run
	// (defaults to 2 minutes).
	EventTimeout time.Duration
}
