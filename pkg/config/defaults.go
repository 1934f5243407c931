package config

import (
	"slices"

	"github.com/papercomputeco/disrello/pkg/llm/router"
)

const (
	defaultStorageDriver = "file"
	defaultStoragePath   = "disrello_ai_data.json"
	defaultRedisKey      = "disrello:document"

	defaultProvider = "ollama"

	defaultOllamaURL         = "http://127.0.0.1:11434"
	defaultOllamaModel       = "phi3.5"
	defaultOllamaTemperature = 0.6
	defaultContextMessages   = 20

	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"

	defaultTimeoutS = 45

	defaultAICooldownS  = 2.5
	defaultContextLimit = 80
	defaultPendingTTLS  = 120

	defaultTodoBoard = "TODO"
	defaultTodoInbox = "Inbox"

	defaultAPIListen = ":8090"

	defaultEventStreamDriver = "nop"
	defaultEventStreamTopic  = "disrello.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Driver:   defaultStorageDriver,
			Path:     defaultStoragePath,
			RedisKey: defaultRedisKey,
		},
		LLM: LLMConfig{
			Provider:              defaultProvider,
			PreferSmallModels:     true,
			PreferredOllamaModels: slices.Clone(router.DefaultPreferredOllama),
			PreferredOpenAIModels: slices.Clone(router.DefaultPreferredOpenAI),
		},
		Ollama: OllamaConfig{
			URL:             defaultOllamaURL,
			Model:           defaultOllamaModel,
			TimeoutS:        defaultTimeoutS,
			Temperature:     defaultOllamaTemperature,
			ContextMessages: defaultContextMessages,
		},
		OpenAI: OpenAIConfig{
			BaseURL:  defaultOpenAIBaseURL,
			Model:    defaultOpenAIModel,
			TimeoutS: defaultTimeoutS,
		},
		Behavior: BehaviorConfig{
			AICooldownS:                   defaultAICooldownS,
			ContextLimit:                  defaultContextLimit,
			ForwardTodosFromOtherChannels: true,
			AutoCaptureTasksFromAI:        true,
			PendingTTLS:                   defaultPendingTTLS,
		},
		Summarise: BurstConfig{
			LookbackS:         3600,
			SilenceGapS:       600,
			MinMessages:       8,
			MinAuthors:        2,
			TargetMaxMessages: 60,
			ChannelScanLimit:  1200,
			MinContentChars:   2,
		},
		Taskify: BurstConfig{
			LookbackS:         900,
			SilenceGapS:       75,
			MinMessages:       6,
			MinAuthors:        2,
			TargetMaxMessages: 40,
		},
		Todo: TodoConfig{
			BoardName:     defaultTodoBoard,
			InboxListName: defaultTodoInbox,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		EventStream: EventStreamConfig{
			Driver: defaultEventStreamDriver,
			Topic:  defaultEventStreamTopic,
		},
	}
}
