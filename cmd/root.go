package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chat",
		Short:         "Terminal chat client with local conversation history",
		Long:          "chat keeps per-identity conversation history on disk and sends each message, with its full visible history, to the Anthropic Messages API for a reply.",
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

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newConfigCmd(app),
		newListCmd(app),
		newNewCmd(app),
		newRenameCmd(app),
		newShowCmd(app),
		newSendCmd(app),
	)

	return rootCmd
}
