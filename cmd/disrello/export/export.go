// Package exportcmder provides the export command that dumps the stored
// document.
package exportcmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/papercomputeco/disrello/cmd/disrello/wiring"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/storage"
	"github.com/papercomputeco/disrello/pkg/storage/open"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const exportLongDesc string = `Dump the stored document.

JSON output is the on-disk layout of the file driver and can be used as a
backup or to move data between storage drivers. YAML output uses the same
keys.

Examples:
  disrello export > backup.json
  disrello export --format yaml
  disrello export --storage sqlite --sqlite ./disrello.db`

const exportShortDesc string = "Dump the stored document"

var storageFlagKeys = []string{
	config.FlagStorageDriver,
	config.FlagStoragePath,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagRedis,
}

type exportCommander struct {
	format string
	flags  map[string]*string
}

func NewExportCmd() *cobra.Command {
	cmder := &exportCommander{flags: make(map[string]*string, len(storageFlagKeys))}

	cmd := &cobra.Command{
		Use:   "export",
		Short: exportShortDesc,
		Long:  exportLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			return Export(cmd.Context(), driver, cmder.format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cmder.format, "format", "f", FormatJSON, "Output format (json, yaml)")
	for _, key := range storageFlagKeys {
		target := new(string)
		cmder.flags[key] = target
		config.AddStringFlag(cmd, config.Flags, key, target)
	}

	return cmd
}

// Export writes the document loaded from driver to out in format.
func Export(ctx context.Context, driver storage.Driver, format string, out io.Writer) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unsupported format %q (supported: json, yaml)", format)
	}

	doc, err := driver.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	// Going through the JSON form keeps the YAML keys identical to the
	// stored layout.
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("converting to yaml: %w", err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
