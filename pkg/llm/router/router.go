package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/disrello/pkg/llm"
)

// Router dispatches generation calls to the client for each provider.
type Router struct {
	clients map[string]llm.Client
}

// New returns a Router over clients, keyed by their names.
func New(clients ...llm.Client) *Router {
	r := &Router{clients: make(map[string]llm.Client, len(clients))}
	for _, c := range clients {
		r.clients[c.Name()] = c
	}
	return r
}

// Generate runs one chat completion and returns the trimmed reply text.
func (r *Router) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	c, err := r.client(p.Provider)
	if err != nil {
		return "", err
	}
	resp, err := c.Chat(ctx, llm.FromPrompt(p))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// ListModels lists the models of one provider.
func (r *Router) ListModels(ctx context.Context, name string) ([]string, error) {
	c, err := r.client(name)
	if err != nil {
		return nil, err
	}
	return c.ListModels(ctx)
}

func (r *Router) client(name string) (llm.Client, error) {
	c, ok := r.clients[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llm.ErrUnsupportedProvider, name)
	}
	return c, nil
}

// Ensure Router implements llm.Generator
var _ llm.Generator = (*Router)(nil)
