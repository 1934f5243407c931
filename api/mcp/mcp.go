// Package mcp provides an MCP (Model Context Protocol) server exposing
// read-only views of disrello boards, cards and channel keywords.
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/storage"
	"github.com/papercomputeco/disrello/pkg/utils"
)

type Config struct {
	// Driver loads the stored document
	Driver storage.Driver

	// Memory is the bot's channel memory, used for keyword lookups
	Memory *contextmem.Memory

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the board tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "disrello",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Driver == nil {
			return nil, errors.New("storage driver is required")
		}
		if c.Memory == nil {
			return nil, errors.New("context memory is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        listBoardsToolName,
			Description: listBoardsDescription,
		}, s.handleListBoards)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        searchCardsToolName,
			Description: searchCardsDescription,
		}, s.handleSearchCards)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        channelKeywordsToolName,
			Description: channelKeywordsDescription,
		}, s.handleChannelKeywords)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// toolError reports a failed tool call to the client.
func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// toolResult returns out as structured content with a JSON text copy for
// clients that only read text blocks.
func toolResult[T any](s *Server, out T) (*mcp.CallToolResult, T, error) {
	data, err := json.Marshal(out)
	if err != nil {
		s.config.Logger.Error("failed to marshal tool output", "error", err)
		var zero T
		return toolError("Failed to serialize results: %v", err), zero, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, out, nil
}
