package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/bnema/okc-cli/internal/protocol"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultMinPollInterval = 3 * time.Second
	DefaultMaxSendAttempts = 5
	DefaultRetryBaseDelay  = time.Second
	DefaultRetryMaxDelay   = 30 * time.Second
)

var errSessionStarted = errors.New("session already started")

type SessionConfig struct {
	MinPollInterval time.Duration
	MaxSendAttempts int
	RetryBaseDelay  time.Duration
	RetryMaxDelay   time.Duration
	MailboxURL      string
	AvatarHost      string
	// DisablePolling turns the session into a send-only client.
	DisablePolling bool
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MinPollInterval: DefaultMinPollInterval,
		MaxSendAttempts: DefaultMaxSendAttempts,
		RetryBaseDelay:  DefaultRetryBaseDelay,
		RetryMaxDelay:   DefaultRetryMaxDelay,
		MailboxURL:      protocol.MailboxURL,
		AvatarHost:      domain.DefaultAvatarHost,
	}
}

func (c SessionConfig) withDefaults() SessionConfig {
	defaults := DefaultSessionConfig()
	if c.MinPollInterval <= 0 {
		c.MinPollInterval = defaults.MinPollInterval
	}
	if c.MaxSendAttempts <= 0 {
		c.MaxSendAttempts = defaults.MaxSendAttempts
	}
	if c.RetryBaseDelay < 0 {
		c.RetryBaseDelay = defaults.RetryBaseDelay
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = defaults.RetryMaxDelay
	}
	if c.MailboxURL == "" {
		c.MailboxURL = defaults.MailboxURL
	}
	if c.AvatarHost == "" {
		c.AvatarHost = defaults.AvatarHost
	}
	return c
}

// Random is the randomness a session needs. *rand.Rand satisfies it.
type Random interface {
	Uint32() uint32
	Int64N(n int64) int64
}

type SessionDeps struct {
	Transport ports.Transport
	Notifier  ports.Notifier
	Roster    ports.Roster
	// Avatars is optional; without it avatar changes are only recorded.
	Avatars ports.AvatarFetcher
	Clock   ports.Clock
	Random  Random
	Logger  zerolog.Logger
}

// SessionSnapshot is a point-in-time copy of a session's sync state.
type SessionSnapshot struct {
	Cursor            domain.Cursor
	UnreadCount       int
	LastPoll          time.Time
	Polling           bool
	PendingDeliveries int
}

// Session keeps one account in sync with the service. Every state
// transition runs on the session's reactor goroutine.
type Session struct {
	account   domain.Account
	cfg       SessionConfig
	transport ports.Transport
	notifier  ports.Notifier
	roster    ports.Roster
	avatars   ports.AvatarFetcher
	clock     ports.Clock
	rng       Random
	logger    zerolog.Logger
	reactor   *reactor

	lifecycleMu sync.Mutex
	started     bool
	stopped     bool
	ctx         context.Context
	cancel      context.CancelFunc

	// Owned by the reactor goroutine.
	running           bool
	cursor            domain.Cursor
	lastUnread        int
	lastPoll          time.Time
	polling           bool
	pollSeq           uint64
	pollTimer         ports.Timer
	pollTimerGen      uint64
	pendingKind       protocol.PollKind
	deliveries        map[uint64]*delivery
	deliverySeq       uint64
	fingerprintLoaded map[string]struct{}
	rosterDirty       bool
}

func NewSession(account domain.Account, deps SessionDeps, cfg SessionConfig) *Session {
	clock := deps.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	rng := deps.Random
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Session{
		account:   account,
		cfg:       cfg.withDefaults(),
		transport: deps.Transport,
		notifier:  deps.Notifier,
		roster:    deps.Roster,
		avatars:   deps.Avatars,
		clock:     clock,
		rng:       rng,
		logger: deps.Logger.With().
			Str("account", string(account.ID)).
			Str("session_id", uuid.NewString()).
			Logger(),
		reactor:           newReactor(),
		ctx:               context.Background(),
		cancel:            func() {},
		deliveries:        map[uint64]*delivery{},
		fingerprintLoaded: map[string]struct{}{},
	}
}

func (s *Session) Account() domain.Account {
	return s.account
}

// Start begins polling. The session stops on its own when ctx is done.
func (s *Session) Start(ctx context.Context) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.stopped {
		return domain.ErrSessionClosed
	}
	if s.started {
		return errSessionStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	go s.reactor.run()
	s.reactor.post(func() {
		s.running = true
		s.logger.Info().Dur("min_poll_interval", s.cfg.MinPollInterval).Msg("Session started")
		s.triggerPoll(protocol.PollRoutine)
	})
	context.AfterFunc(s.ctx, s.Stop)

	return nil
}

// Stop cancels in-flight requests and timers, abandons undelivered
// messages and waits for the reactor to drain. It is safe to call more
// than once.
func (s *Session) Stop() {
	s.lifecycleMu.Lock()
	alreadyStopped := s.stopped
	s.stopped = true
	started := s.started
	s.lifecycleMu.Unlock()

	if !started {
		return
	}
	if !alreadyStopped {
		s.reactor.post(s.teardown)
		s.reactor.close()
		s.cancel()
	}
	<-s.reactor.done
}

// Done is closed once a started session has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.reactor.done
}

func (s *Session) Snapshot() SessionSnapshot {
	var snap SessionSnapshot
	s.inLoop(func() {
		snap = SessionSnapshot{
			Cursor:            s.cursor,
			UnreadCount:       s.lastUnread,
			LastPoll:          s.lastPoll,
			Polling:           s.polling,
			PendingDeliveries: len(s.deliveries),
		}
	})
	return snap
}

// inLoop runs fn on the reactor and waits for it. Before Start and after
// the reactor has drained, fn runs on the caller.
func (s *Session) inLoop(fn func()) {
	s.lifecycleMu.Lock()
	if !s.started {
		defer s.lifecycleMu.Unlock()
		fn()
		return
	}
	s.lifecycleMu.Unlock()

	done := make(chan struct{})
	if s.reactor.post(func() {
		defer close(done)
		fn()
	}) {
		<-done
		return
	}

	<-s.reactor.done
	fn()
}

func (s *Session) active() bool {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	return s.started && !s.stopped
}

func (s *Session) teardown() {
	s.running = false

	if s.pollTimer != nil {
		s.pollTimer.Stop()
		s.pollTimer = nil
	}
	s.pollTimerGen++

	for key, d := range s.deliveries {
		s.finish(key, d, domain.DeliveryAbandoned, domain.ErrSessionClosed)
	}

	s.persistRoster(context.WithoutCancel(s.ctx))
	s.logger.Info().
		Int64("seqid", s.cursor.SequenceID).
		Int64("gmt", s.cursor.ServerTime).
		Msg("Session stopped")
}
