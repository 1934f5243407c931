// Package router picks the provider and model for a community and routes
// generation calls to the matching llm.Client.
package router

import (
	"strings"

	"github.com/papercomputeco/disrello/pkg/llm/provider"
	"github.com/papercomputeco/disrello/pkg/llm/ramlimit"
	"github.com/papercomputeco/disrello/pkg/model"
)

// Default small-model preference lists.
var (
	DefaultPreferredOllama = []string{
		"phi3.5",
		"phi3",
		"llama3.2:1b",
		"llama3.2:3b",
		"gemma2:2b",
		"qwen2.5:3b",
		"mistral:7b",
	}
	DefaultPreferredOpenAI = []string{
		"gpt-4o-mini",
		"gpt-4.1-mini",
		"gpt-3.5-turbo",
	}
)

// Policy holds the configured provider defaults.
type Policy struct {
	DefaultProvider   string
	OllamaModel       string
	OpenAIModel       string
	PreferSmallModels bool
	PreferredOllama   []string
	PreferredOpenAI   []string
}

// Effective returns the provider and model for a community, falling back
// to the configured defaults.
func (p Policy) Effective(ai model.AISettings) (string, string) {
	name := strings.ToLower(strings.TrimSpace(ai.Provider))
	if name == "" || !provider.IsSupported(name) {
		name = p.defaultProvider()
	}
	if m := strings.TrimSpace(ai.Model); m != "" {
		return name, m
	}
	if name == provider.OpenAI {
		return name, p.OpenAIModel
	}
	return name, p.OllamaModel
}

// Preferred returns the small-model preference list for a provider.
func (p Policy) Preferred(name string) []string {
	if strings.EqualFold(name, provider.OpenAI) {
		if len(p.PreferredOpenAI) > 0 {
			return p.PreferredOpenAI
		}
		return DefaultPreferredOpenAI
	}
	if len(p.PreferredOllama) > 0 {
		return p.PreferredOllama
	}
	return DefaultPreferredOllama
}

// ChooseSmallModel picks the first preferred model that is available.
// Local models must also fit the RAM tier. Nothing is chosen when small
// models are not preferred.
func (p Policy) ChooseSmallModel(name string, available []string, ramGB int) (string, bool) {
	if !p.PreferSmallModels {
		return "", false
	}
	ramGB = ramlimit.Normalize(ramGB)
	local := strings.EqualFold(name, provider.Ollama)
	fits := func(m string) bool { return !local || ramlimit.Fits(m, ramGB) }

	avail := make([]string, 0, len(available))
	for _, a := range available {
		if a = strings.TrimSpace(a); a != "" {
			avail = append(avail, a)
		}
	}

	for _, want := range p.Preferred(name) {
		for _, a := range avail {
			if a == want && fits(a) {
				return a, true
			}
		}
		for _, a := range avail {
			if strings.EqualFold(a, want) && fits(a) {
				return a, true
			}
		}
	}
	return "", false
}

func (p Policy) defaultProvider() string {
	name := strings.ToLower(strings.TrimSpace(p.DefaultProvider))
	if provider.IsSupported(name) {
		return name
	}
	return provider.Ollama
}
