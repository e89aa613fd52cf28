package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	renderchat "github.com/bhouston/chat-app/internal/adapters/render/chat"
	"github.com/bhouston/chat-app/internal/domain"
)

func newListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chats for the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.loadConversations(cmd.Context()); err != nil {
				return err
			}

			sessions := app.conversations.Sessions()

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(sessions)
			}

			opts := renderchat.RenderOptions{Now: app.clock.Now()}
			if active, ok := app.conversations.Active(); ok {
				opts.ActiveID = active.ID
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderchat.RenderSessionList(sessions, opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newNewCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a fresh chat and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.loadConversations(cmd.Context()); err != nil {
				return err
			}

			session, err := app.conversations.CreateSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("create chat: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created chat %s\n", session.ID)
			return nil
		},
	}
}

func newRenameCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Rename a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.loadConversations(cmd.Context()); err != nil {
				return err
			}

			id, err := resolveSessionID(app, args[0])
			if err != nil {
				return err
			}

			if err := app.conversations.RenameSession(cmd.Context(), id, args[1]); err != nil {
				return fmt.Errorf("rename chat %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Renamed")
			return nil
		},
	}

	return cmd
}

func newShowCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Print a chat transcript (active chat by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.loadConversations(cmd.Context()); err != nil {
				return err
			}

			if len(args) == 1 {
				id, err := resolveSessionID(app, args[0])
				if err != nil {
					return err
				}
				if err := app.conversations.SelectSession(id); err != nil {
					return fmt.Errorf("select chat %s: %w", args[0], err)
				}
			}

			session, ok := app.conversations.Active()
			if !ok {
				return domain.ErrNoActiveSession
			}

			opts := renderchat.RenderOptions{Now: app.clock.Now(), ActiveID: session.ID}
			fmt.Fprintln(cmd.OutOrStdout(), renderchat.RenderTranscript(session, opts))
			return nil
		},
	}

	return cmd
}

// resolveSessionID accepts a full session id or an unambiguous prefix, as
// printed by `chat list`.
func resolveSessionID(app *app, raw string) (domain.SessionID, error) {
	var match domain.SessionID
	count := 0
	for _, session := range app.conversations.Sessions() {
		if session.ID == domain.SessionID(raw) {
			return session.ID, nil
		}
		if len(raw) >= 4 && len(raw) < len(string(session.ID)) && string(session.ID)[:len(raw)] == raw {
			match = session.ID
			count++
		}
	}

	switch count {
	case 0:
		return "", fmt.Errorf("chat %s: %w", raw, domain.ErrSessionNotFound)
	case 1:
		return match, nil
	default:
		return "", errors.New("chat id prefix is ambiguous")
	}
}
