package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/disrello/pkg/storage"
)

const defaultEventTimeout = 2 * time.Minute

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP gateway for disrello.
type Server struct {
	config Config
	driver storage.Driver
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The driver is shared with the bot;
// handlers only ever read from it.
func NewServer(config Config, driver storage.Driver, logger *slog.Logger) (*Server, error) {
	if driver == nil {
		return nil, errors.New("storage driver is required")
	}
	if config.Bot == nil {
		return nil, errors.New("bot is required")
	}
	if config.Pool == nil {
		return nil, errors.New("dispatch pool is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if config.EventTimeout <= 0 {
		config.EventTimeout = defaultEventTimeout
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		driver: driver,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Post("/events/message", s.handleMessageEvent)
	v1.Post("/events/reaction", s.handleReactionEvent)

	guilds := v1.Group("/guilds/:guild")
	guilds.Get("/boards", s.handleListBoards)
	guilds.Get("/boards/:ref", s.handleGetBoard)
	guilds.Get("/search", s.handleSearchEndpoint)
	guilds.Get("/channels/:channel/keywords", s.handleChannelKeywords)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
