package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	avatarfile "github.com/bnema/okc-cli/internal/adapters/avatar/file"
	consolenotify "github.com/bnema/okc-cli/internal/adapters/notify/console"
	rosterrender "github.com/bnema/okc-cli/internal/adapters/render/roster"
	tomlrepo "github.com/bnema/okc-cli/internal/adapters/repo/toml"
	rosteradapter "github.com/bnema/okc-cli/internal/adapters/roster"
	chainstore "github.com/bnema/okc-cli/internal/adapters/secrets/chain"
	"github.com/bnema/okc-cli/internal/adapters/transport/httpclient"
	"github.com/bnema/okc-cli/internal/application"
	"github.com/bnema/okc-cli/internal/config"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/logging"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// configFileEnv points at a config file other than ~/.okc/config.toml.
const configFileEnv = "OKC_CONFIG"

type app struct {
	cfg            config.Config
	service        *application.Service
	repo           *tomlrepo.Repository
	secrets        *chainstore.Store
	rosterRenderer func([]application.Status, rosterrender.RenderOptions) (string, error)
	logLevel       string
	logFormat      string
}

func wireApp() (*app, error) {
	v := viper.New()
	if path := strings.TrimSpace(envOrDefault(configFileEnv, "")); path != "" {
		v.SetConfigFile(path)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, logging.Format(cfg.Log.Format))
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.Secrets.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		cfg:            cfg,
		service:        application.NewService(repo, repo, secretStore),
		repo:           repo,
		secrets:        secretStore,
		rosterRenderer: rosterrender.Render,
		logLevel:       cfg.Log.Level,
		logFormat:      cfg.Log.Format,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (a *app) logger(w io.Writer) (zerolog.Logger, error) {
	logger, err := logging.New(w, a.logLevel, logging.Format(a.logFormat))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

func (a *app) sessionConfig(disablePolling bool) application.SessionConfig {
	return application.SessionConfig{
		MinPollInterval: a.cfg.Poll.MinInterval,
		MaxSendAttempts: a.cfg.Send.MaxAttempts,
		RetryBaseDelay:  a.cfg.Send.RetryBase,
		RetryMaxDelay:   a.cfg.Send.RetryMax,
		MailboxURL:      a.cfg.Server.MailboxURL,
		AvatarHost:      a.cfg.Server.AvatarHost,
		DisablePolling:  disablePolling,
	}
}

func (a *app) transport(id domain.AccountID, logger zerolog.Logger) *httpclient.Client {
	return &httpclient.Client{
		BaseURL: a.cfg.Server.BaseURL(),
		Cookie: func(ctx context.Context) (string, error) {
			return a.service.SessionCookie(ctx, id)
		},
		LongPollTimeout: a.cfg.Poll.Timeout,
		Logger:          logger.With().Str("account", string(id)).Str("component", "transport").Logger(),
	}
}

// sessionParts bundles what one account's session is built from.
type sessionParts struct {
	session *application.Session
	roster  *rosteradapter.Roster
}

type sessionOptions struct {
	notifyOut      io.Writer
	disablePolling bool
	persistRoster  bool
}

func (a *app) newSession(ctx context.Context, account domain.Account, opts sessionOptions, logger zerolog.Logger) (sessionParts, error) {
	var contacts ports.ContactRepository
	if opts.persistRoster {
		contacts = a.repo
	}
	roster := rosteradapter.New(account.ID, contacts)
	if err := roster.Load(ctx); err != nil {
		return sessionParts{}, err
	}

	transport := a.transport(account.ID, logger)
	deps := application.SessionDeps{
		Transport: transport,
		Notifier:  consolenotify.New(opts.notifyOut, account.ID, logger),
		Roster:    roster,
		Logger:    logger,
	}
	if !opts.disablePolling {
		deps.Avatars = avatarfile.New(a.cfg.Avatars.Dir, account.ID, transport, logger)
	}

	return sessionParts{
		session: application.NewSession(account, deps, a.sessionConfig(opts.disablePolling)),
		roster:  roster,
	}, nil
}
