package config

import (
	"path/filepath"
	"time"

	"github.com/papercomputeco/disrello/pkg/burst"
	"github.com/papercomputeco/disrello/pkg/llm/provider"
	"github.com/papercomputeco/disrello/pkg/llm/provider/ollama"
	"github.com/papercomputeco/disrello/pkg/llm/provider/openai"
	"github.com/papercomputeco/disrello/pkg/llm/router"
	"github.com/papercomputeco/disrello/pkg/storage/open"
)

// Params converts the section into burst selection parameters.
func (b BurstConfig) Params() burst.Params {
	return burst.Params{
		Lookback:          time.Duration(b.LookbackS) * time.Second,
		SilenceGap:        time.Duration(b.SilenceGapS) * time.Second,
		MinMessages:       b.MinMessages,
		MinAuthors:        b.MinAuthors,
		TargetMaxMessages: b.TargetMaxMessages,
	}
}

// Timeout returns the Ollama call timeout.
func (o OllamaConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutS) * time.Second
}

// Timeout returns the OpenAI call timeout.
func (o OpenAIConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutS) * time.Second
}

// PendingTTL returns how long confirmations and drafts stay valid.
func (b BehaviorConfig) PendingTTL() time.Duration {
	return time.Duration(b.PendingTTLS) * time.Second
}

// AICooldown returns the default per-channel AI cooldown.
func (b BehaviorConfig) AICooldown() time.Duration {
	return time.Duration(b.AICooldownS * float64(time.Second))
}

// RouterPolicy returns the provider and model selection policy.
func (c *Config) RouterPolicy() router.Policy {
	return router.Policy{
		DefaultProvider:   c.LLM.Provider,
		OllamaModel:       c.Ollama.Model,
		OpenAIModel:       c.OpenAI.Model,
		PreferSmallModels: c.LLM.PreferSmallModels,
		PreferredOllama:   c.LLM.PreferredOllamaModels,
		PreferredOpenAI:   c.LLM.PreferredOpenAIModels,
	}
}

// ProviderConfig returns client settings for every LLM provider. apiKey is
// the resolved OpenAI key and may be empty.
func (c *Config) ProviderConfig(apiKey string) provider.Config {
	return provider.Config{
		Ollama: ollama.Config{
			BaseURL: c.Ollama.URL,
			Timeout: c.Ollama.Timeout(),
		},
		OpenAI: openai.Config{
			BaseURL: c.OpenAI.BaseURL,
			APIKey:  apiKey,
			Timeout: c.OpenAI.Timeout(),
		},
	}
}

// Timeout returns the call timeout of the named provider.
func (c *Config) Timeout(providerName string) time.Duration {
	if providerName == provider.OpenAI {
		return c.OpenAI.Timeout()
	}
	return c.Ollama.Timeout()
}

// StorageOptions returns the driver options for the storage section.
// Relative file and SQLite paths are resolved against dir.
func (c *Config) StorageOptions(dir string) open.Options {
	return open.Options{
		Driver:      c.Storage.Driver,
		Path:        resolvePath(dir, c.Storage.Path),
		SQLitePath:  resolvePath(dir, c.Storage.SQLitePath),
		PostgresDSN: c.Storage.PostgresDSN,
		RedisAddr:   c.Storage.RedisAddr,
		RedisKey:    c.Storage.RedisKey,
	}
}

// StorageTarget is a printable location of the configured store. Secrets in
// the Postgres DSN are not stripped, so it is only written to local state.
func (c *Config) StorageTarget(dir string) string {
	opts := c.StorageOptions(dir)
	switch opts.Driver {
	case open.SQLite:
		return opts.SQLitePath
	case open.Postgres:
		return "postgres"
	case open.Redis:
		return opts.RedisAddr + "/" + opts.RedisKey
	case open.Memory:
		return ""
	default:
		return opts.Path
	}
}

func resolvePath(dir, path string) string {
	if path == "" || dir == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
