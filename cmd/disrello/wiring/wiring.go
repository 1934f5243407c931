// Package wiring assembles the bot and its collaborators from a resolved
// configuration. It is shared by the serve and console commands.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/credentials"
	"github.com/papercomputeco/disrello/pkg/dotdir"
	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/eventstream/kafka"
	"github.com/papercomputeco/disrello/pkg/eventstream/nop"
	"github.com/papercomputeco/disrello/pkg/llm/provider"
	"github.com/papercomputeco/disrello/pkg/llm/router"
	"github.com/papercomputeco/disrello/pkg/storage"
	"github.com/papercomputeco/disrello/pkg/storage/open"
)

// Runtime is a bot connected to its storage, LLM providers and event stream.
type Runtime struct {
	Config    *config.Config
	Dir       string
	Driver    storage.Driver
	Publisher eventstream.Publisher
	Bot       *bot.Bot
}

// Build opens storage and the event stream and creates the bot. dir is the
// resolved .disrello/ directory.
func Build(ctx context.Context, cfg *config.Config, dir string, logger *slog.Logger) (*Runtime, error) {
	driver, err := open.Open(ctx, cfg.StorageOptions(dir))
	if err != nil {
		return nil, err
	}

	pub, err := NewPublisher(cfg)
	if err != nil {
		driver.Close()
		return nil, err
	}

	apiKey, err := resolveOpenAIKey(dir)
	if err != nil {
		logger.Warn("could not read stored credentials", "error", err)
	}

	gen := router.New(provider.NewAll(cfg.ProviderConfig(apiKey))...)

	b, err := bot.New(&bot.Config{
		Driver:    driver,
		Generator: gen,
		Publisher: pub,
		Logger:    logger,
		Settings:  bot.SettingsFromConfig(cfg),
	})
	if err != nil {
		pub.Close()
		driver.Close()
		return nil, fmt.Errorf("creating bot: %w", err)
	}

	logger.Info("bot ready",
		"storage", cfg.Storage.Driver,
		"provider", cfg.LLM.Provider,
		"eventstream", cfg.EventStream.Driver,
	)

	return &Runtime{
		Config:    cfg,
		Dir:       dir,
		Driver:    driver,
		Publisher: pub,
		Bot:       b,
	}, nil
}

// Close releases the publisher and the storage driver.
func (r *Runtime) Close() error {
	return errors.Join(r.Publisher.Close(), r.Driver.Close())
}

// NewPublisher returns the event publisher selected by eventstream.driver.
func NewPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	switch cfg.EventStream.Driver {
	case "kafka":
		pub, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.EventStream.Brokers,
			Topic:   cfg.EventStream.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		return pub, nil
	case "nop", "":
		return nop.NewPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported eventstream driver %q", cfg.EventStream.Driver)
	}
}

func resolveOpenAIKey(dir string) (string, error) {
	mgr, err := credentials.NewManager(dir)
	if err != nil {
		return "", err
	}
	return mgr.ResolveKey(provider.OpenAI)
}

// LoadConfig resolves the data dir and the effective configuration for cmd.
// keys names the registry flags cmd registered; they take precedence over
// environment variables and config.toml.
func LoadConfig(cmd *cobra.Command, configDir string, keys []string) (*config.Config, string, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, "", err
	}

	v, err := config.InitViper(dir)
	if err != nil {
		return nil, "", err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, keys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config: %w", err)
	}
	return cfg, dir, nil
}
