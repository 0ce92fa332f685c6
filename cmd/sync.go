package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

var errNoSyncableAccounts = errors.New("no account has a session cookie; run `okc auth set`")

func newSyncCmd(app *app) *cobra.Command {
	var accountID string
	var metricsAddr string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Poll instant events for every account until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = app.cfg.Metrics.Addr
			}
			return runSync(cmd, app, accountID, metricsAddr, duration)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID (default: every account with a session cookie)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 runs until interrupted)")

	return cmd
}

func runSync(cmd *cobra.Command, app *app, accountID, metricsAddr string, duration time.Duration) error {
	logger, err := app.logger(&lockedWriter{w: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	accounts, err := syncAccounts(cmd.Context(), app, accountID, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	out := &lockedWriter{w: cmd.OutOrStdout()}
	sessions := make([]sessionParts, 0, len(accounts))
	for _, account := range accounts {
		parts, err := app.newSession(ctx, account, sessionOptions{notifyOut: out, persistRoster: true}, logger)
		if err != nil {
			return fmt.Errorf("prepare session for %s: %w", account.ID, err)
		}
		sessions = append(sessions, parts)
	}

	g, gctx := errgroup.WithContext(ctx)

	if metricsAddr != "" {
		if err := serveMetrics(gctx, g, metricsAddr, logger); err != nil {
			return err
		}
	}

	for _, parts := range sessions {
		g.Go(func() error {
			id := parts.session.Account().ID
			if err := parts.session.Start(gctx); err != nil {
				return fmt.Errorf("start session for %s: %w", id, err)
			}
			<-parts.session.Done()

			snap := parts.session.Snapshot()
			logger.Info().
				Str("account", string(id)).
				Int64("seqid", snap.Cursor.SequenceID).
				Int("contacts", len(parts.roster.Contacts())).
				Msg("Sync finished")
			return nil
		})
	}

	return g.Wait()
}

// syncAccounts returns the accounts to run, skipping those without a
// session cookie unless one was asked for by ID.
func syncAccounts(ctx context.Context, app *app, accountID string, logger zerolog.Logger) ([]domain.Account, error) {
	if accountID != "" {
		account, err := app.service.GetAccount(ctx, domain.AccountID(accountID))
		if err != nil {
			return nil, err
		}
		if account.Auth.SecretRef == "" {
			return nil, fmt.Errorf("account %s: %w", account.ID, errNoSyncableAccounts)
		}
		return []domain.Account{account}, nil
	}

	all, err := app.service.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(all))
	for _, account := range all {
		if account.Auth.SecretRef == "" {
			logger.Warn().Str("account", string(account.ID)).Msg("Skipping account without session cookie")
			continue
		}
		accounts = append(accounts, account)
	}
	if len(accounts) == 0 {
		return nil, errNoSyncableAccounts
	}

	return accounts, nil
}

// serveMetrics exposes the sync counters on a registry of its own, so
// repeated runs in one process never register twice.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, logger zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	metrics.RegisterWith(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen for metrics: %w", err)
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info().Str("addr", listener.Addr().String()).Msg("Serving metrics")

	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return nil
}

// lockedWriter lets notifiers of several sessions share one output.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
