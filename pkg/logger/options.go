package logger

import (
	"io"
	"log/slog"
)

// Option tweaks how New builds its handler.
type Option func(*config)

// WithLevel sets the minimum level that reaches the handler.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithDebug switches between debug and info level. serve and console wire
// it to the --debug flag.
func WithDebug(debug bool) Option {
	if debug {
		return WithLevel(slog.LevelDebug)
	}
	return WithLevel(slog.LevelInfo)
}

// WithPretty renders records through charmbracelet/log for the terminal.
func WithPretty(pretty bool) Option {
	return func(c *config) { c.pretty = pretty }
}

// WithJSON emits one JSON object per record, as written to serve.log.
func WithJSON(json bool) Option {
	return func(c *config) { c.json = json }
}

// WithWriter replaces the destination. Stdout is used when no writer is set.
func WithWriter(w io.Writer) Option {
	return WithWriters(w)
}

// WithWriters fans every record out to all of ws.
func WithWriters(ws ...io.Writer) Option {
	return func(c *config) { c.writers = ws }
}

// WithSource adds the caller's file and line to each record.
func WithSource(source bool) Option {
	return func(c *config) { c.source = source }
}
