// Package boardscmder provides the boards command for rendering a guild's
// boards from storage.
package boardscmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/disrello/cmd/disrello/wiring"
	"github.com/papercomputeco/disrello/pkg/cliui"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/storage"
	"github.com/papercomputeco/disrello/pkg/storage/open"
)

const boardsLongDesc string = `Render a guild's boards from storage.

Reads the stored document directly; a running serve does not need to be
stopped. Without a guild argument the console guild "local" is shown. Use
--all-guilds to list the guilds present in storage.

Examples:
  disrello boards
  disrello boards 123456789
  disrello boards --all-guilds`

const boardsShortDesc string = "Render a guild's boards"

var storageFlagKeys = []string{
	config.FlagStorageDriver,
	config.FlagStoragePath,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagRedis,
}

type boardsCommander struct {
	flags     map[string]*string
	allGuilds bool
}

func NewBoardsCmd() *cobra.Command {
	cmder := &boardsCommander{flags: make(map[string]*string, len(storageFlagKeys))}

	cmd := &cobra.Command{
		Use:   "boards [guild]",
		Short: boardsShortDesc,
		Long:  boardsLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, dir, err := wiring.LoadConfig(cmd, configDir, storageFlagKeys)
			if err != nil {
				return err
			}

			driver, err := open.Open(cmd.Context(), cfg.StorageOptions(dir))
			if err != nil {
				return err
			}
			defer driver.Close()

			out := cmd.OutOrStdout()
			if cmder.allGuilds {
				return Guilds(cmd.Context(), driver, out)
			}

			guild := "local"
			if len(args) == 1 {
				guild = args[0]
			}

			color := false
			if f, ok := out.(*os.File); ok {
				color = term.IsTerminal(int(f.Fd()))
			}
			return Render(cmd.Context(), driver, guild, out, cliui.NewPrinter(out, color))
		},
	}

	cmd.Flags().BoolVar(&cmder.allGuilds, "all-guilds", false, "List the guilds present in storage")
	for _, key := range storageFlagKeys {
		target := new(string)
		cmder.flags[key] = target
		config.AddStringFlag(cmd, config.Flags, key, target)
	}

	return cmd
}

// Render prints every board of guild.
func Render(ctx context.Context, driver storage.Driver, guild string, out io.Writer, p *cliui.Printer) error {
	doc, err := driver.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	store, ok := doc.Guilds[guild]
	if !ok || len(store.Boards) == 0 {
		fmt.Fprintf(out, "\n  %s No boards in guild %s.\n\n", cliui.DimStyle.Render("●"), cliui.NameStyle.Render(guild))
		return nil
	}

	for _, b := range store.Boards {
		fmt.Fprintln(out, p.Board(b))
	}
	return nil
}

// Guilds prints the stored guild ids with their board counts.
func Guilds(ctx context.Context, driver storage.Driver, out io.Writer) error {
	doc, err := driver.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	if len(doc.Guilds) == 0 {
		fmt.Fprintf(out, "\n  %s No guilds stored yet.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	ids := make([]string, 0, len(doc.Guilds))
	for id := range doc.Guilds {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "\n  %s\n\n", cliui.HeaderStyle.Render("Guilds"))
	for _, id := range ids {
		fmt.Fprintf(out, "  %s  %s\n",
			cliui.KeyStyle.Render(id),
			cliui.DimStyle.Render(fmt.Sprintf("%d board(s)", len(doc.Guilds[id].Boards))),
		)
	}
	fmt.Fprintln(out)
	return nil
}
