// Package servecmder provides the serve command that runs the disrello
// gateway.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/disrello/api"
	"github.com/papercomputeco/disrello/api/mcp"
	"github.com/papercomputeco/disrello/cmd/disrello/wiring"
	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/dispatch"
	"github.com/papercomputeco/disrello/pkg/logger"
	"github.com/papercomputeco/disrello/pkg/start"
)

type ServeCommander struct {
	flags     map[string]*string
	configDir string
	debug     bool

	cmd    *cobra.Command
	cfg    *config.Config
	dir    string
	logger *slog.Logger
}

const serveLongDesc string = `Run the disrello gateway.

The gateway accepts chat events over HTTP, runs them through the bot one at
a time and persists the boards to the configured storage driver. It also
serves read-only board views and an MCP endpoint on /mcp.

Only one serve may use a data directory at a time. Edits to config.toml are
picked up without a restart.

Examples:
  disrello serve
  disrello serve --listen :9000 --storage sqlite --sqlite ./disrello.db
  disrello serve --eventstream kafka --kafka-brokers localhost:9092`

const serveShortDesc string = "Run the disrello gateway"

// serveFlagKeys are the registry flags serve accepts.
var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagStorageDriver,
	config.FlagStoragePath,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagRedis,
	config.FlagProvider,
	config.FlagOllamaURL,
	config.FlagOllamaModel,
	config.FlagOpenAIBaseURL,
	config.FlagOpenAIModel,
	config.FlagTodoChannel,
	config.FlagAIChannel,
	config.FlagSystemChannel,
	config.FlagEventStream,
	config.FlagKafkaBrokers,
	config.FlagEventTopic,
	config.FlagAICooldown,
	config.FlagContextLimit,
	config.FlagPendingTTL,
	config.FlagPreferSmall,
	config.FlagAutoCaptureAI,
	config.FlagForwardTodos,
	config.FlagTodoBoard,
	config.FlagTodoInbox,
	config.FlagContextMessage,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{flags: make(map[string]*string, len(serveFlagKeys))}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			cmder.cmd = cmd
			cmder.cfg, cmder.dir, err = wiring.LoadConfig(cmd, cmder.configDir, serveFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	for _, key := range serveFlagKeys {
		target := new(string)
		cmder.flags[key] = target
		config.AddStringFlag(cmd, config.Flags, key, target)
	}

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	mgr, err := start.NewManager(c.dir)
	if err != nil {
		return err
	}

	lock, err := mgr.TryLock()
	if err != nil {
		if errors.Is(err, start.ErrLocked) {
			return fmt.Errorf("%w: %s", err, mgr.Dir)
		}
		return err
	}
	defer lock.Release()

	logFile, err := os.OpenFile(mgr.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening serve log: %w", err)
	}
	defer logFile.Close()

	c.logger = logger.Multi(
		logger.New(logger.WithDebug(c.debug), logger.WithPretty(true)),
		logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(logFile)),
	)

	rt, err := wiring.Build(ctx, c.cfg, c.dir, c.logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	pool := dispatch.NewPool(&dispatch.Config{Logger: c.logger})
	defer pool.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Driver: rt.Driver,
		Memory: rt.Bot.Memory(),
		Logger: c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	server, err := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
		Bot:        rt.Bot,
		Pool:       pool,
		MCPHandler: mcpServer.Handler(),
	}, rt.Driver, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	err = mgr.SaveState(&start.State{
		PID:           os.Getpid(),
		Listen:        c.cfg.API.Listen,
		StorageDriver: c.cfg.Storage.Driver,
		StorageTarget: c.cfg.StorageTarget(c.dir),
		StartedAt:     time.Now(),
		LogPath:       mgr.LogPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.ClearState(); err != nil {
			c.logger.Warn("could not clear serve state", "error", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down")
		return server.Shutdown()
	})

	g.Go(func() error {
		path := filepath.Join(c.dir, "config.toml")
		err := config.Watch(gctx, path, func(_ *config.Config, err error) {
			c.reload(gctx, pool, rt.Bot, err)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

// reload re-resolves the configuration after config.toml changed, keeping
// command line flags on top, and hands the new settings to the bot on the
// dispatch worker.
func (c *ServeCommander) reload(ctx context.Context, pool *dispatch.Pool, b *bot.Bot, watchErr error) {
	if watchErr != nil {
		c.logger.Warn("ignoring invalid config change", "error", watchErr)
		return
	}

	cfg, _, err := wiring.LoadConfig(c.cmd, c.configDir, serveFlagKeys)
	if err != nil {
		c.logger.Warn("ignoring invalid config change", "error", err)
		return
	}

	settings := bot.SettingsFromConfig(cfg)
	err = pool.Submit(ctx, func(context.Context) error {
		b.UpdateSettings(settings)
		return nil
	})
	if err != nil {
		c.logger.Warn("could not apply config change", "error", err)
		return
	}
	c.logger.Info("config reloaded")
}
