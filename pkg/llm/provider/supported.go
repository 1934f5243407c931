package provider

import (
	"slices"
	"strings"

	"github.com/papercomputeco/disrello/pkg/llm/provider/ollama"
	"github.com/papercomputeco/disrello/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	Ollama = ollama.Name
	OpenAI = openai.Name
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Ollama, OpenAI}
}

// IsSupported reports whether name (case-insensitive) is a provider.
func IsSupported(name string) bool {
	return slices.Contains(SupportedProviders(), strings.ToLower(strings.TrimSpace(name)))
}
