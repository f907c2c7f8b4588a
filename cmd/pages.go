package cmd

import (
	"fmt"

	pagesview "github.com/bnema/yolka/internal/adapters/render/pages"
	"github.com/spf13/cobra"
)

func newPagesCmd(app *app) *cobra.Command {
	var (
		picked []string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Preview a catalog page as the bot keyboard shows it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := app.candidateIDs(picked)
			if err != nil {
				return err
			}

			view, err := pagesview.NewPageView(app.catalog, ids, page)
			if err != nil {
				return err
			}

			output, err := pagesview.Render(view)
			if err != nil {
				return fmt.Errorf("render page: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&picked, "picked", nil, "Candidate ids already picked (comma separated)")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page index")

	return cmd
}
