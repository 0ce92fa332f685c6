package cmd

import (
	"fmt"

	"github.com/bnema/okc-cli/internal/application"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.service.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			for _, account := range accounts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", account.ID, account.Name, account.Username)
			}

			return nil
		},
	}
}

func newAccountAddCmd(app *app) *cobra.Command {
	var accountID string
	var name string
	var username string
	var showSent bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account or update its profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolvedAccountID, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			account, err := app.service.AddAccount(cmd.Context(), application.AddAccountCommand{
				ID:               resolvedAccountID,
				Name:             name,
				Username:         username,
				ShowSentMessages: showSent,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved account %s (%s)\n", account.Name, account.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "0", "Account ID (0 or empty auto-assigns next: 1,2,...)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&username, "username", "", "OkCupid screen name")
	cmd.Flags().BoolVar(&showSent, "show-sent", false, "Show messages this account sent from other clients")

	return cmd
}
