package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "toplap",
		Short:         "TopLap: laptop recommendations over Telegram",
		Long:          "toplap runs the TopLap Telegram bot, which recommends laptops for a purpose and budget, and offers offline tools to query the catalog and the known-users registry.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.closeLogger()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newRecommendCmd(app),
		newUsersCmd(app),
	)

	return rootCmd
}
