// Package disrellocmder
package disrellocmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/disrello/cmd/disrello/auth"
	boardscmder "github.com/papercomputeco/disrello/cmd/disrello/boards"
	configcmder "github.com/papercomputeco/disrello/cmd/disrello/config"
	consolecmder "github.com/papercomputeco/disrello/cmd/disrello/console"
	exportcmder "github.com/papercomputeco/disrello/cmd/disrello/export"
	servecmder "github.com/papercomputeco/disrello/cmd/disrello/serve"
	statuscmder "github.com/papercomputeco/disrello/cmd/disrello/status"
	versioncmder "github.com/papercomputeco/disrello/cmd/version"
)

const disrelloLongDesc string = `Disrello turns chat into boards.

It captures todos from messages, keeps boards, lists and cards per guild,
and uses a local or OpenAI-compatible LLM to chat, draft tasks and
summarise conversations.

Run the gateway or talk to the bot locally:
  disrello serve       Run the HTTP gateway and MCP endpoint
  disrello console     Chat with the bot from the terminal
  disrello boards      Render a guild's boards`

const disrelloShortDesc string = "Disrello - chat task bot"

func NewDisrelloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "disrello",
		Short:        disrelloShortDesc,
		Long:         disrelloLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .disrello/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(consolecmder.NewConsoleCmd())
	cmd.AddCommand(boardscmder.NewBoardsCmd())
	cmd.AddCommand(exportcmder.NewExportCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
