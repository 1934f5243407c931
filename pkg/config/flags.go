package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g. --storage
// on both "disrello serve" and "disrello console").
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "api.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags
// to avoid typos or drift from one command to another.
const (
	FlagListen         = "listen"
	FlagStorageDriver  = "storage"
	FlagStoragePath    = "storage-path"
	FlagSQLite         = "sqlite"
	FlagPostgres       = "postgres"
	FlagRedis          = "redis"
	FlagProvider       = "provider"
	FlagOllamaURL      = "ollama-url"
	FlagOllamaModel    = "ollama-model"
	FlagOpenAIBaseURL  = "openai-base-url"
	FlagOpenAIModel    = "openai-model"
	FlagTodoChannel    = "todo-channel"
	FlagAIChannel      = "ai-channel"
	FlagSystemChannel  = "system-channel"
	FlagEventStream    = "eventstream"
	FlagKafkaBrokers   = "kafka-brokers"
	FlagEventTopic     = "eventstream-topic"
	FlagAICooldown     = "ai-cooldown"
	FlagContextLimit   = "context-limit"
	FlagPendingTTL     = "pending-ttl"
	FlagPreferSmall    = "prefer-small-models"
	FlagAutoCaptureAI  = "auto-capture-from-ai"
	FlagForwardTodos   = "forward-todos"
	FlagTodoBoard      = "todo-board"
	FlagTodoInbox      = "todo-inbox"
	FlagContextMessage = "context-messages"
)

// Flags is the registry shared by every command.
var Flags = FlagSet{
	FlagListen:         {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for the HTTP gateway to listen on"},
	FlagStorageDriver:  {Name: "storage", ViperKey: "storage.driver", Description: "Document storage driver (file, memory, sqlite, postgres, redis)"},
	FlagStoragePath:    {Name: "storage-path", ViperKey: "storage.path", Description: "Path of the JSON document for the file driver"},
	FlagSQLite:         {Name: "sqlite", Shorthand: "s", ViperKey: "storage.sqlite_path", Description: "Path to SQLite database for the sqlite driver"},
	FlagPostgres:       {Name: "postgres", ViperKey: "storage.postgres_dsn", Description: "PostgreSQL connection string for the postgres driver"},
	FlagRedis:          {Name: "redis", ViperKey: "storage.redis_addr", Description: "Redis address or URL for the redis driver"},
	FlagProvider:       {Name: "provider", Shorthand: "p", ViperKey: "llm.provider", Description: "Default LLM provider (ollama, openai)"},
	FlagOllamaURL:      {Name: "ollama-url", ViperKey: "ollama.url", Description: "Ollama API URL"},
	FlagOllamaModel:    {Name: "ollama-model", ViperKey: "ollama.model", Description: "Default Ollama model"},
	FlagOpenAIBaseURL:  {Name: "openai-base-url", ViperKey: "openai.base_url", Description: "OpenAI-compatible API root"},
	FlagOpenAIModel:    {Name: "openai-model", ViperKey: "openai.model", Description: "Default OpenAI model"},
	FlagTodoChannel:    {Name: "todo-channel", ViperKey: "channels.todo", Description: "Channel id captured todos are posted to"},
	FlagAIChannel:      {Name: "ai-channel", ViperKey: "channels.ai_listen", Description: "Channel id where every message is an AI prompt"},
	FlagSystemChannel:  {Name: "system-channel", ViperKey: "channels.system", Description: "Channel id for system notices"},
	FlagEventStream:    {Name: "eventstream", ViperKey: "eventstream.driver", Description: "Event stream driver (nop, kafka)"},
	FlagKafkaBrokers:   {Name: "kafka-brokers", ViperKey: "eventstream.brokers", Description: "Comma separated Kafka brokers"},
	FlagEventTopic:     {Name: "eventstream-topic", ViperKey: "eventstream.topic", Description: "Topic domain events are published to"},
	FlagAICooldown:     {Name: "ai-cooldown", ViperKey: "behavior.ai_cooldown_s", Description: "Per-channel AI cooldown in seconds"},
	FlagContextLimit:   {Name: "context-limit", ViperKey: "behavior.context_limit", Description: "Messages kept per channel in context memory"},
	FlagPendingTTL:     {Name: "pending-ttl", ViperKey: "behavior.pending_ttl_s", Description: "Seconds a confirmation or draft stays valid"},
	FlagPreferSmall:    {Name: "prefer-small-models", ViperKey: "llm.prefer_small_models", Description: "Auto-pick a small model when none is set"},
	FlagAutoCaptureAI:  {Name: "auto-capture-from-ai", ViperKey: "behavior.auto_capture_tasks_from_ai", Description: "Offer to capture tasks found in AI replies"},
	FlagForwardTodos:   {Name: "forward-todos", ViperKey: "behavior.forward_todos_from_other_channels", Description: "Capture todos written outside the TODO channel"},
	FlagTodoBoard:      {Name: "todo-board", ViperKey: "todo.board_name", Description: "Board captured todos land on"},
	FlagTodoInbox:      {Name: "todo-inbox", ViperKey: "todo.inbox_list_name", Description: "List captured todos land in"},
	FlagContextMessage: {Name: "context-messages", ViperKey: "ollama.context_messages", Description: "Recent messages sent as AI chat context"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands. Every config value
// has a string form, so numeric and boolean keys register as strings too.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
