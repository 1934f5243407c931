// Package versioncmder provides the version command.
package versioncmder

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/disrello/pkg/utils"
)

func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Long:  "Print the version, commit, build time and Go runtime of the disrello binary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return write(cmd.OutOrStdout(), short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")

	return cmd
}

func write(out io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(out, utils.Version)
		return err
	}
	_, err := fmt.Fprintf(out, "disrello %s\n  commit: %s\n  built:  %s\n  go:     %s %s/%s\n",
		utils.Version, utils.Sha, utils.Buildtime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}
