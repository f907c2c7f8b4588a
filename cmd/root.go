package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "yolka",
		Short:         "Decorate-the-tree Telegram bot",
		Long:          "yolka runs a Telegram bot where users pick seven candidates from a paginated catalog and receive a decorated New Year tree image. It can also render trees and preview catalog pages offline.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newVersionCmd(), newCatalogCmd())

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		for _, name := range []string{"serve", "render", "pages"} {
			rootCmd.AddCommand(&cobra.Command{
				Use:                name,
				Hidden:             true,
				DisableFlagParsing: true,
				RunE: func(_ *cobra.Command, _ []string) error {
					return err
				},
			})
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newServeCmd(app),
		newRenderCmd(app),
		newPagesCmd(app),
	)

	return rootCmd
}
