package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bnema/okc-cli/internal/application"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSendCmd(app *app) *cobra.Command {
	var accountID string
	var peer string

	cmd := &cobra.Command{
		Use:   "send --to <screen name> <message>",
		Short: "Send one instant message and wait for the server to accept it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, app, domain.AccountID(accountID), peer, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&peer, "to", "", "Recipient screen name")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runSend(cmd *cobra.Command, app *app, accountID domain.AccountID, peer, body string) error {
	errOut := &lockedWriter{w: cmd.ErrOrStderr()}
	logger, err := app.logger(errOut)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	account, err := app.service.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if _, err := app.service.SessionCookie(ctx, account.ID); err != nil {
		return err
	}

	parts, err := app.newSession(ctx, account, sessionOptions{notifyOut: errOut, disablePolling: true}, logger)
	if err != nil {
		return err
	}
	if err := parts.session.Start(ctx); err != nil {
		return err
	}
	defer parts.session.Stop()

	results, err := parts.session.Send(peer, body)
	if err != nil {
		return err
	}

	var result application.DeliveryResult
	err = runSendSpinner(ctx, errOut, fmt.Sprintf("Sending to %s...", peer), func(ctx context.Context) error {
		select {
		case result = <-results:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		return err
	}

	return reportDelivery(cmd, result)
}

func reportDelivery(cmd *cobra.Command, result application.DeliveryResult) error {
	msg := result.Message
	if result.State == domain.DeliveryAcknowledged {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Delivered to %s (rid %d, attempt %d)\n", msg.Peer, msg.RequestID, msg.AttemptCount)
		return err
	}

	var rejection *domain.RejectionError
	if errors.As(result.Err, &rejection) && rejection.Known() {
		return fmt.Errorf("send to %s: %s: %w", msg.Peer, rejection.Reason.UserMessage(), result.Err)
	}
	if result.Err != nil {
		return fmt.Errorf("send to %s: %w", msg.Peer, result.Err)
	}
	return fmt.Errorf("send to %s: message %s", msg.Peer, result.State)
}
