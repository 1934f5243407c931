// Package statuscmder provides the status command for reporting whether a
// serve is running against the data directory.
package statuscmder

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/disrello/pkg/cliui"
	"github.com/papercomputeco/disrello/pkg/start"
)

const statusLongDesc string = `Show whether disrello serve is running.

Checks the run lock of the .disrello/ directory (or ~/.disrello/) and prints
the state the running serve recorded: its pid, listen address, storage and
start time.

Examples:
  disrello status
  disrello status --config-dir /srv/disrello`

const statusShortDesc string = "Show whether disrello serve is running"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(cmd.OutOrStdout(), configDir, time.Now())
		},
	}

	return cmd
}

func runStatus(out io.Writer, configDir string, now time.Time) error {
	mgr, err := start.NewManager(configDir)
	if err != nil {
		return err
	}

	held, err := mgr.Held()
	if err != nil {
		return fmt.Errorf("checking run lock: %w", err)
	}

	state, err := mgr.LoadState()
	if err != nil {
		return err
	}

	if !held {
		fmt.Fprintf(out, "\n  %s disrello serve is not running %s\n",
			cliui.DimStyle.Render("●"),
			cliui.DimStyle.Render("("+mgr.Dir+")"),
		)
		if state != nil {
			fmt.Fprintf(out, "  %s stale state from pid %d left behind\n",
				cliui.WarnStyle.Render("!"), state.PID)
		}
		fmt.Fprintln(out)
		return nil
	}

	fmt.Fprintf(out, "\n  %s disrello serve is running\n\n", cliui.SuccessMark)
	if state == nil {
		fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render("No state recorded yet."))
		return nil
	}

	rows := [][2]string{
		{"PID:", strconv.Itoa(state.PID)},
		{"Listen:", state.Listen},
		{"Storage:", storage(state)},
		{"Started:", fmt.Sprintf("%s (%s ago)", state.StartedAt.Format(time.RFC3339), now.Sub(state.StartedAt).Round(time.Second))},
		{"Log:", state.LogPath},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-9s", row[0])), cliui.ValueStyle.Render(row[1]))
	}
	fmt.Fprintln(out)
	return nil
}

func storage(s *start.State) string {
	if s.StorageTarget == "" {
		return s.StorageDriver
	}
	return s.StorageDriver + " " + s.StorageTarget
}
