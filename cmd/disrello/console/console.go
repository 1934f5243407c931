// Package consolecmder provides the console command, a local line based chat
// adapter for the bot.
package consolecmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/disrello/cmd/disrello/wiring"
	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/cliui"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/logger"
	"github.com/papercomputeco/disrello/pkg/start"
)

// BotID is the user id the console bot answers mentions for.
const BotID = "disrello"

const consoleLongDesc string = `Chat with the bot from the terminal.

Every line read from stdin is delivered as a message from --user in
--channel of --guild. Replies are printed as they would be posted.

Special lines:
  /react <post> [emoji]   React to a tracked post (default ✅)
  /quit                   Leave the console

Mentions use the chat syntax: <@user> for members and <#channel> for
channels. Mention <@disrello> to talk to the AI.

The console writes to the same storage as serve and refuses to start while a
serve holds the data directory.

Examples:
  disrello console
  disrello console --user u42 --name Sam --channel todo
  echo '- [ ] water plants' | disrello console`

const consoleShortDesc string = "Chat with the bot from the terminal"

var consoleFlagKeys = []string{
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
}

// Session identifies the speaker of every console line.
type Session struct {
	GuildID    string
	ChannelID  string
	AuthorID   string
	AuthorName string
	Admin      bool
}

type consoleCommander struct {
	session   Session
	flags     map[string]*string
	configDir string
	debug     bool
}

var (
	userMention    = regexp.MustCompile(`<@!?([^>\s]+)>`)
	channelMention = regexp.MustCompile(`<#([^>\s]+)>`)
)

func NewConsoleCmd() *cobra.Command {
	cmder := &consoleCommander{flags: make(map[string]*string, len(consoleFlagKeys))}

	cmd := &cobra.Command{
		Use:   "console",
		Short: consoleShortDesc,
		Long:  consoleLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.session.GuildID, "guild", "local", "Guild the console speaks in")
	cmd.Flags().StringVar(&cmder.session.ChannelID, "channel", "console", "Channel the console speaks in")
	cmd.Flags().StringVarP(&cmder.session.AuthorID, "user", "u", "local", "User id of the speaker")
	cmd.Flags().StringVar(&cmder.session.AuthorName, "name", "", "Display name of the speaker (defaults to the user id)")
	cmd.Flags().BoolVar(&cmder.session.Admin, "admin", false, "Speak with guild admin rights")

	for _, key := range consoleFlagKeys {
		target := new(string)
		cmder.flags[key] = target
		config.AddStringFlag(cmd, config.Flags, key, target)
	}

	return cmd
}

func (c *consoleCommander) run(cmd *cobra.Command) error {
	cfg, dir, err := wiring.LoadConfig(cmd, c.configDir, consoleFlagKeys)
	if err != nil {
		return err
	}

	mgr, err := start.NewManager(dir)
	if err != nil {
		return err
	}
	lock, err := mgr.TryLock()
	if err != nil {
		if errors.Is(err, start.ErrLocked) {
			return fmt.Errorf("%w: stop serve or use another --config-dir", err)
		}
		return err
	}
	defer lock.Release()

	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	if !c.debug {
		log = logger.Nop()
	}

	out := cmd.OutOrStdout()
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	var rt *wiring.Runtime
	build := func() error {
		rt, err = wiring.Build(cmd.Context(), cfg, dir, log)
		return err
	}
	if color {
		err = cliui.Step(cmd.ErrOrStderr(), "Opening "+cfg.Storage.Driver+" storage", build)
	} else {
		err = build()
	}
	if err != nil {
		return err
	}
	defer rt.Close()

	return Run(cmd.Context(), rt.Bot, cmd.InOrStdin(), out, cliui.NewPrinter(out, color), c.session)
}

// Run feeds each line of in to b as a message from s and prints the replies
// to out. It returns when in is exhausted, on /quit, or when ctx is done.
func Run(ctx context.Context, b *bot.Bot, in io.Reader, out io.Writer, p *cliui.Printer, s Session) error {
	if s.AuthorName == "" {
		s.AuthorName = s.AuthorID
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}

		var (
			replies []bot.Reply
			err     error
		)
		if rest, ok := strings.CutPrefix(line, "/react"); ok {
			replies, err = react(ctx, b, s, strings.Fields(rest))
		} else {
			replies, err = b.HandleMessage(ctx, message(s, line))
		}
		if err != nil {
			return err
		}

		for _, r := range replies {
			fmt.Fprint(out, p.Reply(r))
		}
	}
	return scanner.Err()
}

func react(ctx context.Context, b *bot.Bot, s Session, args []string) ([]bot.Reply, error) {
	if len(args) == 0 {
		return []bot.Reply{{Text: "Usage: /react <post> [emoji]"}}, nil
	}
	emoji := "✅"
	if len(args) > 1 {
		emoji = args[1]
	}
	return b.HandleReaction(ctx, &bot.ReactionEvent{
		GuildID:   s.GuildID,
		ChannelID: s.ChannelID,
		PostID:    args[0],
		UserID:    s.AuthorID,
		Emoji:     emoji,
	})
}

func message(s Session, text string) *bot.MessageEvent {
	return &bot.MessageEvent{
		ID:              uuid.NewString(),
		GuildID:         s.GuildID,
		ChannelID:       s.ChannelID,
		ChannelName:     s.ChannelID,
		AuthorID:        s.AuthorID,
		AuthorName:      s.AuthorName,
		IsAdmin:         s.Admin,
		Text:            text,
		TS:              time.Now(),
		Mentions:        captures(userMention, text),
		ChannelMentions: captures(channelMention, text),
		BotID:           BotID,
	}
}

func captures(re *regexp.Regexp, text string) []string {
	var ids []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		ids = append(ids, m[1])
	}
	return ids
}
