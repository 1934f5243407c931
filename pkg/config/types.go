package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent disrello configuration stored as
// config.toml in the .disrello/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	LLM         LLMConfig         `toml:"llm"`
	Ollama      OllamaConfig      `toml:"ollama"`
	OpenAI      OpenAIConfig      `toml:"openai"`
	Behavior    BehaviorConfig    `toml:"behavior"`
	Summarise   BurstConfig       `toml:"summarise"`
	Taskify     BurstConfig       `toml:"taskify"`
	Todo        TodoConfig        `toml:"todo"`
	Channels    ChannelsConfig    `toml:"channels"`
	API         APIConfig         `toml:"api"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// StorageConfig selects the document driver and its target.
type StorageConfig struct {
	Driver      string `toml:"driver,omitempty"`
	Path        string `toml:"path,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
	RedisAddr   string `toml:"redis_addr,omitempty"`
	RedisKey    string `toml:"redis_key,omitempty"`
}

// LLMConfig holds provider selection shared by every AI feature.
type LLMConfig struct {
	Provider              string   `toml:"provider,omitempty"`
	PreferSmallModels     bool     `toml:"prefer_small_models"`
	PreferredOllamaModels []string `toml:"preferred_ollama_models,omitempty"`
	PreferredOpenAIModels []string `toml:"preferred_openai_models,omitempty"`
}

// OllamaConfig holds settings for the local Ollama server.
type OllamaConfig struct {
	URL             string  `toml:"url,omitempty"`
	Model           string  `toml:"model,omitempty"`
	TimeoutS        int     `toml:"timeout_s,omitempty"`
	Temperature     float64 `toml:"temperature"`
	ContextMessages int     `toml:"context_messages,omitempty"`
}

// OpenAIConfig holds settings for an OpenAI-compatible endpoint. The API key
// is never stored here; see pkg/credentials.
type OpenAIConfig struct {
	BaseURL  string `toml:"base_url,omitempty"`
	Model    string `toml:"model,omitempty"`
	TimeoutS int    `toml:"timeout_s,omitempty"`
}

// BehaviorConfig holds bot-wide defaults. Guild settings override
// AICooldownS, ForwardTodosFromOtherChannels and AutoCaptureTasksFromAI.
type BehaviorConfig struct {
	AICooldownS                   float64 `toml:"ai_cooldown_s"`
	ContextLimit                  int     `toml:"context_limit,omitempty"`
	ForwardTodosFromOtherChannels bool    `toml:"forward_todos_from_other_channels"`
	AutoCaptureTasksFromAI        bool    `toml:"auto_capture_tasks_from_ai"`
	PendingTTLS                   int     `toml:"pending_ttl_s,omitempty"`
}

// BurstConfig tunes conversation burst selection. ChannelScanLimit and
// MinContentChars only apply to the summarise history fallback.
type BurstConfig struct {
	LookbackS         int `toml:"lookback_s,omitempty"`
	SilenceGapS       int `toml:"silence_gap_s,omitempty"`
	MinMessages       int `toml:"min_messages,omitempty"`
	MinAuthors        int `toml:"min_authors,omitempty"`
	TargetMaxMessages int `toml:"target_max_messages,omitempty"`
	ChannelScanLimit  int `toml:"channel_scan_limit,omitempty"`
	MinContentChars   int `toml:"min_content_chars,omitempty"`
}

// TodoConfig names the board and list that captured todos land in.
type TodoConfig struct {
	BoardName     string `toml:"board_name,omitempty"`
	InboxListName string `toml:"inbox_list_name,omitempty"`
}

// ChannelsConfig holds configured channel ids. Guild channel overrides take
// precedence over these.
type ChannelsConfig struct {
	Todo     string `toml:"todo,omitempty"`
	AIListen string `toml:"ai_listen,omitempty"`
	System   string `toml:"system,omitempty"`
}

// APIConfig holds HTTP gateway settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EventStreamConfig selects the domain event publisher.
type EventStreamConfig struct {
	Driver  string   `toml:"driver,omitempty"`
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	kind keyKind
	get  func(c *Config) string
	set  func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		kind: kindString,
		get:  func(c *Config) string { return *field(c) },
		set:  func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		kind: kindInt,
		get:  func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
	}
}

func floatKey(name string, field func(c *Config) *float64) configKeyInfo {
	return configKeyInfo{
		kind: kindFloat,
		get:  func(c *Config) string { return strconv.FormatFloat(*field(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if f < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = f
			return nil
		},
	}
}

func boolKey(name string, field func(c *Config) *bool) configKeyInfo {
	return configKeyInfo{
		kind: kindBool,
		get:  func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}

// listKey renders a string slice as a comma separated value.
func listKey(field func(c *Config) *[]string) configKeyInfo {
	return configKeyInfo{
		kind: kindList,
		get:  func(c *Config) string { return strings.Join(*field(c), ",") },
		set:  func(c *Config, v string) error { *field(c) = splitList(v); return nil },
	}
}

func splitList(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// configKeyOrder lists every supported key in TOML section order.
var configKeyOrder = []string{
	"storage.driver",
	"storage.path",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"storage.redis_addr",
	"storage.redis_key",
	"llm.provider",
	"llm.prefer_small_models",
	"llm.preferred_ollama_models",
	"llm.preferred_openai_models",
	"ollama.url",
	"ollama.model",
	"ollama.timeout_s",
	"ollama.temperature",
	"ollama.context_messages",
	"openai.base_url",
	"openai.model",
	"openai.timeout_s",
	"behavior.ai_cooldown_s",
	"behavior.context_limit",
	"behavior.forward_todos_from_other_channels",
	"behavior.auto_capture_tasks_from_ai",
	"behavior.pending_ttl_s",
	"summarise.lookback_s",
	"summarise.silence_gap_s",
	"summarise.min_messages",
	"summarise.min_authors",
	"summarise.target_max_messages",
	"summarise.channel_scan_limit",
	"summarise.min_content_chars",
	"taskify.lookback_s",
	"taskify.silence_gap_s",
	"taskify.min_messages",
	"taskify.min_authors",
	"taskify.target_max_messages",
	"todo.board_name",
	"todo.inbox_list_name",
	"channels.todo",
	"channels.ai_listen",
	"channels.system",
	"api.listen",
	"eventstream.driver",
	"eventstream.brokers",
	"eventstream.topic",
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.driver":       stringKey(func(c *Config) *string { return &c.Storage.Driver }),
	"storage.path":         stringKey(func(c *Config) *string { return &c.Storage.Path }),
	"storage.sqlite_path":  stringKey(func(c *Config) *string { return &c.Storage.SQLitePath }),
	"storage.postgres_dsn": stringKey(func(c *Config) *string { return &c.Storage.PostgresDSN }),
	"storage.redis_addr":   stringKey(func(c *Config) *string { return &c.Storage.RedisAddr }),
	"storage.redis_key":    stringKey(func(c *Config) *string { return &c.Storage.RedisKey }),

	"llm.provider":                stringKey(func(c *Config) *string { return &c.LLM.Provider }),
	"llm.prefer_small_models":     boolKey("llm.prefer_small_models", func(c *Config) *bool { return &c.LLM.PreferSmallModels }),
	"llm.preferred_ollama_models": listKey(func(c *Config) *[]string { return &c.LLM.PreferredOllamaModels }),
	"llm.preferred_openai_models": listKey(func(c *Config) *[]string { return &c.LLM.PreferredOpenAIModels }),

	"ollama.url":              stringKey(func(c *Config) *string { return &c.Ollama.URL }),
	"ollama.model":            stringKey(func(c *Config) *string { return &c.Ollama.Model }),
	"ollama.timeout_s":        intKey("ollama.timeout_s", func(c *Config) *int { return &c.Ollama.TimeoutS }),
	"ollama.temperature":      floatKey("ollama.temperature", func(c *Config) *float64 { return &c.Ollama.Temperature }),
	"ollama.context_messages": intKey("ollama.context_messages", func(c *Config) *int { return &c.Ollama.ContextMessages }),

	"openai.base_url":  stringKey(func(c *Config) *string { return &c.OpenAI.BaseURL }),
	"openai.model":     stringKey(func(c *Config) *string { return &c.OpenAI.Model }),
	"openai.timeout_s": intKey("openai.timeout_s", func(c *Config) *int { return &c.OpenAI.TimeoutS }),

	"behavior.ai_cooldown_s": floatKey("behavior.ai_cooldown_s", func(c *Config) *float64 { return &c.Behavior.AICooldownS }),
	"behavior.context_limit": intKey("behavior.context_limit", func(c *Config) *int { return &c.Behavior.ContextLimit }),
	"behavior.forward_todos_from_other_channels": boolKey("behavior.forward_todos_from_other_channels",
		func(c *Config) *bool { return &c.Behavior.ForwardTodosFromOtherChannels }),
	"behavior.auto_capture_tasks_from_ai": boolKey("behavior.auto_capture_tasks_from_ai",
		func(c *Config) *bool { return &c.Behavior.AutoCaptureTasksFromAI }),
	"behavior.pending_ttl_s": intKey("behavior.pending_ttl_s", func(c *Config) *int { return &c.Behavior.PendingTTLS }),

	"summarise.lookback_s":          intKey("summarise.lookback_s", func(c *Config) *int { return &c.Summarise.LookbackS }),
	"summarise.silence_gap_s":       intKey("summarise.silence_gap_s", func(c *Config) *int { return &c.Summarise.SilenceGapS }),
	"summarise.min_messages":        intKey("summarise.min_messages", func(c *Config) *int { return &c.Summarise.MinMessages }),
	"summarise.min_authors":         intKey("summarise.min_authors", func(c *Config) *int { return &c.Summarise.MinAuthors }),
	"summarise.target_max_messages": intKey("summarise.target_max_messages", func(c *Config) *int { return &c.Summarise.TargetMaxMessages }),
	"summarise.channel_scan_limit":  intKey("summarise.channel_scan_limit", func(c *Config) *int { return &c.Summarise.ChannelScanLimit }),
	"summarise.min_content_chars":   intKey("summarise.min_content_chars", func(c *Config) *int { return &c.Summarise.MinContentChars }),

	"taskify.lookback_s":          intKey("taskify.lookback_s", func(c *Config) *int { return &c.Taskify.LookbackS }),
	"taskify.silence_gap_s":       intKey("taskify.silence_gap_s", func(c *Config) *int { return &c.Taskify.SilenceGapS }),
	"taskify.min_messages":        intKey("taskify.min_messages", func(c *Config) *int { return &c.Taskify.MinMessages }),
	"taskify.min_authors":         intKey("taskify.min_authors", func(c *Config) *int { return &c.Taskify.MinAuthors }),
	"taskify.target_max_messages": intKey("taskify.target_max_messages", func(c *Config) *int { return &c.Taskify.TargetMaxMessages }),

	"todo.board_name":      stringKey(func(c *Config) *string { return &c.Todo.BoardName }),
	"todo.inbox_list_name": stringKey(func(c *Config) *string { return &c.Todo.InboxListName }),

	"channels.todo":      stringKey(func(c *Config) *string { return &c.Channels.Todo }),
	"channels.ai_listen": stringKey(func(c *Config) *string { return &c.Channels.AIListen }),
	"channels.system":    stringKey(func(c *Config) *string { return &c.Channels.System }),

	"api.listen": stringKey(func(c *Config) *string { return &c.API.Listen }),

	"eventstream.driver":  stringKey(func(c *Config) *string { return &c.EventStream.Driver }),
	"eventstream.brokers": listKey(func(c *Config) *[]string { return &c.EventStream.Brokers }),
	"eventstream.topic":   stringKey(func(c *Config) *string { return &c.EventStream.Topic }),
}
