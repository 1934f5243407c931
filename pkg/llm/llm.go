// Package llm defines the text-generation capability the bot consumes and
// the wire-neutral chat types its provider clients speak.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/papercomputeco/disrello/pkg/utils"
)

// MaxErrorBody caps how much of an upstream error body is surfaced.
const MaxErrorBody = 500

// ErrUnsupportedProvider is returned for a provider name with no client.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// Prompt is one generation call.
type Prompt struct {
	Provider    string
	Model       string
	System      string
	User        string
	Temperature float64
}

// Generator produces text from a prompt and lists a provider's models.
// Failures are never retried.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	ListModels(ctx context.Context, provider string) ([]string, error)
}

// Client is a single LLM backend.
type Client interface {
	// Name returns the provider name, e.g. "ollama" or "openai".
	Name() string

	// Chat sends a non-streaming chat completion.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// ListModels returns the model identifiers the backend serves.
	ListModels(ctx context.Context) ([]string, error)
}

// ProviderError is a transport or upstream failure from a provider.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error %d: %s", e.Provider, e.Status, utils.Clip(e.Body, MaxErrorBody))
	}
	if e.Err != nil {
		return utils.Clip(fmt.Sprintf("%s: %v", e.Provider, e.Err), MaxErrorBody)
	}
	return e.Provider + " error"
}

func (e *ProviderError) Unwrap() error { return e.Err }
