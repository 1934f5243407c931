// Package config loads, saves and watches config.toml in the .disrello/
// directory and resolves the effective configuration through viper.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/disrello/pkg/dotdir"
	"github.com/papercomputeco/disrello/pkg/llm/provider"
	"github.com/papercomputeco/disrello/pkg/storage/open"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Always set targetPath when the directory exists so SaveConfig
	// can create or overwrite the file.
	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns all supported configuration key names in TOML
// section order.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range configKeyOrder {
		if _, ok := configKeys[k]; ok && !seen[k] {
			result = append(result, k)
			seen[k] = true
		}
	}
	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// Dir returns the directory holding config.toml.
func (c *Configer) Dir() string {
	if c.targetPath == "" {
		return ""
	}
	return filepath.Dir(c.targetPath)
}

// LoadConfig loads the configuration from config.toml in the target
// .disrello/ directory. If the file does not exist, returns NewDefaultConfig()
// so callers always receive a fully-populated Config. Fields explicitly set
// in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}
	return LoadFile(c.targetPath)
}

// LoadFile reads and parses a config file. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return ParseConfigTOML(data)
}

// applyDefaults fills zero-value fields in cfg with values from
// NewDefaultConfig(). Booleans and floats are taken as written since their
// zero values are meaningful.
func applyDefaults(cfg *Config) {
	d := NewDefaultConfig()

	fillString(&cfg.Storage.Driver, d.Storage.Driver)
	fillString(&cfg.Storage.Path, d.Storage.Path)
	fillString(&cfg.Storage.RedisKey, d.Storage.RedisKey)

	fillString(&cfg.LLM.Provider, d.LLM.Provider)
	if len(cfg.LLM.PreferredOllamaModels) == 0 {
		cfg.LLM.PreferredOllamaModels = d.LLM.PreferredOllamaModels
	}
	if len(cfg.LLM.PreferredOpenAIModels) == 0 {
		cfg.LLM.PreferredOpenAIModels = d.LLM.PreferredOpenAIModels
	}

	fillString(&cfg.Ollama.URL, d.Ollama.URL)
	fillString(&cfg.Ollama.Model, d.Ollama.Model)
	fillInt(&cfg.Ollama.TimeoutS, d.Ollama.TimeoutS)
	fillInt(&cfg.Ollama.ContextMessages, d.Ollama.ContextMessages)

	fillString(&cfg.OpenAI.BaseURL, d.OpenAI.BaseURL)
	fillString(&cfg.OpenAI.Model, d.OpenAI.Model)
	fillInt(&cfg.OpenAI.TimeoutS, d.OpenAI.TimeoutS)

	fillInt(&cfg.Behavior.ContextLimit, d.Behavior.ContextLimit)
	fillInt(&cfg.Behavior.PendingTTLS, d.Behavior.PendingTTLS)

	fillBurst(&cfg.Summarise, d.Summarise)
	fillBurst(&cfg.Taskify, d.Taskify)

	fillString(&cfg.Todo.BoardName, d.Todo.BoardName)
	fillString(&cfg.Todo.InboxListName, d.Todo.InboxListName)

	fillString(&cfg.API.Listen, d.API.Listen)

	fillString(&cfg.EventStream.Driver, d.EventStream.Driver)
	fillString(&cfg.EventStream.Topic, d.EventStream.Topic)
}

func fillString(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}

func fillInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}

func fillBurst(dst *BurstConfig, def BurstConfig) {
	fillInt(&dst.LookbackS, def.LookbackS)
	fillInt(&dst.SilenceGapS, def.SilenceGapS)
	fillInt(&dst.MinMessages, def.MinMessages)
	fillInt(&dst.MinAuthors, def.MinAuthors)
	fillInt(&dst.TargetMaxMessages, def.TargetMaxMessages)
	fillInt(&dst.ChannelScanLimit, def.ChannelScanLimit)
	fillInt(&dst.MinContentChars, def.MinContentChars)
}

// SaveConfig persists the configuration to config.toml in the target .disrello/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value,
// validates the result and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// Get returns the string representation of key on an already loaded config.
func (c *Config) Get(key string) (string, bool) {
	info, ok := configKeys[key]
	if !ok {
		return "", false
	}
	return info.get(c), true
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if !provider.IsSupported(c.LLM.Provider) {
		return fmt.Errorf("unsupported llm.provider %q (supported: %v)", c.LLM.Provider, provider.SupportedProviders())
	}
	if !open.IsSupported(c.Storage.Driver) {
		return fmt.Errorf("unsupported storage.driver %q (supported: %v)", c.Storage.Driver, open.SupportedDrivers())
	}
	switch c.EventStream.Driver {
	case "nop", "kafka":
	default:
		return fmt.Errorf("unsupported eventstream.driver %q (supported: [nop kafka])", c.EventStream.Driver)
	}
	return nil
}

// ParseConfigTOML parses raw TOML bytes over the defaults.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	// Decoding a list reuses the existing backing array, so start from nil
	// and let applyDefaults restore the lists the file leaves out.
	cfg.LLM.PreferredOllamaModels = nil
	cfg.LLM.PreferredOpenAIModels = nil

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	applyDefaults(cfg)

	return cfg, nil
}
