package cmd

import (
	"encoding/json"
	"fmt"

	rosterrender "github.com/bnema/okc-cli/internal/adapters/render/roster"
	"github.com/bnema/okc-cli/internal/application"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newRosterCmd(app *app) *cobra.Command {
	var accountID string
	var asJSON bool
	var maxContacts int

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show accounts and their saved contacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := loadStatuses(cmd, app.service, accountID)
			if err != nil {
				return err
			}

			return writeStatusesOutput(cmd, app, statuses, rosterrender.RenderOptions{MaxContacts: maxContacts}, asJSON)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID (default: all accounts)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of the rendered view")
	cmd.Flags().IntVar(&maxContacts, "max-contacts", 0, "List at most this many contacts per account (0 lists all)")

	return cmd
}

func writeStatusesOutput(cmd *cobra.Command, app *app, statuses []application.Status, opts rosterrender.RenderOptions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	rendered, err := app.rosterRenderer(statuses, opts)
	if err != nil {
		return fmt.Errorf("render roster: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func loadStatuses(cmd *cobra.Command, svc *application.Service, accountID string) ([]application.Status, error) {
	if accountID == "" {
		statuses, err := svc.GetStatusAll(cmd.Context())
		if err != nil {
			return nil, err
		}
		return statuses, nil
	}

	status, err := svc.GetStatus(cmd.Context(), domain.AccountID(accountID))
	if err != nil {
		return nil, err
	}

	return []application.Status{status}, nil
}
