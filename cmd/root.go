package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "okc",
		Short:         "OkCupid CLI (okc): instant messages, presence and mailbox sync",
		Long:          "okc keeps one long-poll session per configured OkCupid account, printing instant messages, presence changes and unread mailbox counts, and sends instant messages with bounded retry.",
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

	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", app.logLevel, "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&app.logFormat, "log-format", app.logFormat, "Log format (auto|pretty|json)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logger, err := app.logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		app.secrets.SetLogger(logger)
		return nil
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newAuthCmd(app),
		newRosterCmd(app),
		newSyncCmd(app),
		newSendCmd(app),
	)

	return rootCmd
}
