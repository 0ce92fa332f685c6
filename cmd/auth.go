package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnema/okc-cli/internal/application"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage account session cookies",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var accountID string
	var secretKey string
	var cookie string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the session cookie of an account",
		Long:  "Store the session cookie of an account in the secret store. Pass --cookie - to read it from stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolvedAccountID, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			value := cookie
			if value == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read cookie from stdin: %w", err)
				}
				value = strings.TrimSpace(string(raw))
			}

			return app.service.SetAuth(cmd.Context(), application.SetAuthCommand{
				ID:          resolvedAccountID,
				SecretKey:   secretKey,
				SecretValue: value,
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "0", "Account ID (0 or empty auto-assigns next: 1,2,...)")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "Secret-store key (default okc://<account>/session_cookie)")
	cmd.Flags().StringVar(&cookie, "cookie", "", "Cookie header value, or - for stdin")
	_ = cmd.MarkFlagRequired("cookie")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the session cookie of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.service.RemoveAuth(cmd.Context(), domain.AccountID(accountID))
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
