// Package configcmder provides the config command for managing persistent
// disrello configuration stored in the .disrello/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/disrello/pkg/cliui"
	"github.com/papercomputeco/disrello/pkg/config"
)

const configLongDesc string = `Manage persistent disrello configuration.

Configuration is stored as config.toml in the .disrello/ directory and
provides default values for command flags. CLI flags and DISRELLO_*
environment variables take precedence over config file values. A running
serve picks up changes to the behavior, channel and burst sections without a
restart.

Keys use dotted notation matching the TOML section structure, for example:
  storage.driver, storage.sqlite_path,
  llm.provider, ollama.model, openai.model,
  behavior.ai_cooldown_s, channels.todo,
  summarise.lookback_s, taskify.min_messages,
  api.listen, eventstream.driver

Use subcommands to get, set, or list configuration values:
  disrello config set <key> <value>    Set a configuration value
  disrello config get <key>            Get a configuration value
  disrello config list                 List all configuration values

Examples:
  disrello config set llm.provider openai
  disrello config set channels.todo 1234567890
  disrello config get ollama.model
  disrello config list`

const configShortDesc string = "Manage persistent disrello configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func printTarget(out io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(out, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
