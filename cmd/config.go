package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the completion gateway configuration",
	}

	cmd.AddCommand(
		newConfigSetKeyCmd(app),
		newConfigSetModelCmd(app),
		newConfigShowCmd(app),
	)

	return cmd
}

func newConfigSetKeyCmd(app *app) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Validate and store the gateway API key for this identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := app.requireIdentity(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.settings.SetAPIKey(cmd.Context(), identity, apiKey); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "key", "", "Gateway API key")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newConfigSetModelCmd(app *app) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "set-model",
		Short: "Select the completion model for this identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := app.requireIdentity(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.settings.SetModel(cmd.Context(), identity, model); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Model set to %s\n", model)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model identifier")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the gateway configuration for this identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := app.requireIdentity(cmd.Context())
			if err != nil {
				return err
			}

			cfg := app.settings.Load(cmd.Context(), identity)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model: %s\n", cfg.Model)
			fmt.Fprintf(out, "api key: %s\n", maskKey(cfg.APIKey))
			return nil
		},
	}
}

// maskKey never prints key material, only its presence and length.
func maskKey(apiKey string) string {
	if apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[set, %s]", strings.Repeat("*", 8))
}
