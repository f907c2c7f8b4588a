package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bnema/yolka/internal/compose"
	"github.com/bnema/yolka/internal/domain"
	"github.com/spf13/cobra"
)

func newRenderCmd(app *app) *cobra.Command {
	var (
		out   string
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "render <candidate-id>...",
		Short: "Render a decorated tree for up to seven candidates",
		Args:  cobra.RangeArgs(1, domain.MaxPicks),
		RunE: func(cmd *cobra.Command, args []string) error {
			picked, err := app.candidateIDs(args)
			if err != nil {
				return err
			}

			engine := compose.NewEngine(app.assets, domain.TreeLayout, app.logger)

			render := func(ctx context.Context) ([]byte, error) {
				return engine.Render(ctx, picked)
			}

			var image []byte
			if quiet {
				image, err = render(cmd.Context())
			} else {
				image, err = runRenderSpinner(cmd.Context(), cmd.ErrOrStderr(), len(picked), render)
			}
			if err != nil {
				return fmt.Errorf("render tree: %w", err)
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(image)
				return err
			}
			if err := os.WriteFile(out, image, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(image))
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "tree.png", "Output file, - for stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Disable the progress spinner")

	return cmd
}

func (a *app) candidateIDs(args []string) ([]domain.CandidateID, error) {
	ids := make([]domain.CandidateID, 0, len(args))
	var errs []error
	for _, arg := range args {
		id := domain.CandidateID(arg)
		if !a.catalog.Contains(id) {
			errs = append(errs, fmt.Errorf("%w: %q", domain.ErrUnknownCandidate, arg))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}
