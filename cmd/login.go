package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhouston/chat-app/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var id string
	var email string
	var name string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and scope conversation history to an identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity := domain.Identity{
				ID:          domain.IdentityID(id),
				Email:       email,
				DisplayName: name,
			}

			if err := app.identities.SignIn(cmd.Context(), identity); err != nil {
				return fmt.Errorf("sign in: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identity ID")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.identities.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := app.requireIdentity(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id: %s\n", identity.ID)
			if identity.Email != "" {
				fmt.Fprintf(out, "email: %s\n", identity.Email)
			}
			if identity.DisplayName != "" {
				fmt.Fprintf(out, "name: %s\n", identity.DisplayName)
			}
			return nil
		},
	}
}
