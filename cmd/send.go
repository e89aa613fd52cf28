package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bhouston/chat-app/internal/domain"
)

func newSendCmd(app *app) *cobra.Command {
	var sessionID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message in the active chat and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, app, strings.Join(args, " "), sessionID, asJSON)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Chat ID (default: active chat)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runSend(cmd *cobra.Command, app *app, content, sessionID string, asJSON bool) error {
	ctx := cmd.Context()

	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message is empty")
	}

	identity, err := app.loadConversations(ctx)
	if err != nil {
		return err
	}

	if sessionID != "" {
		id, err := resolveSessionID(app, sessionID)
		if err != nil {
			return err
		}
		if err := app.conversations.SelectSession(id); err != nil {
			return fmt.Errorf("select chat %s: %w", sessionID, err)
		}
	}

	// Credential check happens before the user message is appended and
	// before any network attempt: a missing key must not grow the history.
	cfg := app.settings.Load(ctx, identity)
	if !cfg.Configured() {
		return errNoAPIKey
	}

	session, err := app.conversations.AppendMessage(ctx, content, domain.RoleUser)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	gateway := app.newGateway(cfg)
	var reply string
	complete := func(ctx context.Context) error {
		var completeErr error
		reply, completeErr = gateway.Complete(ctx, session.Messages)
		return completeErr
	}

	if asJSON {
		err = complete(ctx)
	} else {
		err = runSendSpinner(ctx, cmd.ErrOrStderr(), complete)
	}
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	if _, err := app.conversations.AppendMessage(ctx, reply, domain.RoleAssistant); err != nil {
		return fmt.Errorf("append reply: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{"reply": reply})
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
