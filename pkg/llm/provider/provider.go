// Package provider builds llm.Client values by provider name.
package provider

import (
	"fmt"

	"github.com/papercomputeco/disrello/pkg/llm"
	"github.com/papercomputeco/disrello/pkg/llm/provider/ollama"
	"github.com/papercomputeco/disrello/pkg/llm/provider/openai"
)

// Config carries per-provider client settings.
type Config struct {
	Ollama ollama.Config
	OpenAI openai.Config
}

// New creates a new Client for the given provider type.
// Returns an error if the provider type is not recognized.
func New(providerType string, cfg Config) (llm.Client, error) {
	switch providerType {
	case Ollama:
		return ollama.New(cfg.Ollama), nil
	case OpenAI:
		return openai.New(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", llm.ErrUnsupportedProvider, providerType, SupportedProviders())
	}
}

// NewAll creates a client for every supported provider.
func NewAll(cfg Config) []llm.Client {
	clients := make([]llm.Client, 0, len(SupportedProviders()))
	for _, name := range SupportedProviders() {
		c, err := New(name, cfg)
		if err != nil {
			continue
		}
		clients = append(clients, c)
	}
	return clients
}
