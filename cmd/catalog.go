package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bnema/yolka/internal/adapters/catalog/jsonmap"
	catalogtoml "github.com/bnema/yolka/internal/adapters/catalog/toml"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the candidate catalog",
	}
	cmd.AddCommand(newCatalogImportCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import <candidates.json>",
		Short: "Convert an id-to-name JSON catalog into the TOML catalog format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := jsonmap.LoadFile(args[0])
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := catalogtoml.Encode(&buf, catalog); err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d candidates to %s\n", catalog.Len(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "candidates.toml", "Output file, - for stdout")
	return cmd
}
