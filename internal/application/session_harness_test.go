package application

import (
	"context"
	"sync"
	"testing"
	"time"

	rosteradapter "github.com/bnema/okc-cli/internal/adapters/roster"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/bnema/okc-cli/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var harnessEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type notification struct {
	Kind      string
	Peer      string
	Text      string
	Direction domain.Direction
	Online    bool
	Count     int
	URL       string
}

type recordingNotifier struct {
	mu             sync.Mutex
	events         []notification
	panicOnMailbox bool
}

func (n *recordingNotifier) MessageReceived(peer, body string, direction domain.Direction, _ time.Time) {
	n.record(notification{Kind: "message", Peer: peer, Text: body, Direction: direction})
}

func (n *recordingNotifier) ErrorMessage(peer, text string) {
	n.record(notification{Kind: "error", Peer: peer, Text: text})
}

func (n *recordingNotifier) PresenceChanged(peer string, online bool) {
	n.record(notification{Kind: "presence", Peer: peer, Online: online})
}

func (n *recordingNotifier) MailboxCountChanged(count int, url string) {
	n.mu.Lock()
	fail := n.panicOnMailbox
	n.mu.Unlock()
	if fail {
		panic("mailbox surface unavailable")
	}
	n.record(notification{Kind: "mailbox", Count: count, URL: url})
}

func (n *recordingNotifier) record(event notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.events...)
}

type recordingAvatars struct {
	mu       sync.Mutex
	requests []domain.AvatarRequest
	onSaved  []func()
}

func (a *recordingAvatars) FetchAvatar(_ context.Context, req domain.AvatarRequest, onSaved func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	a.onSaved = append(a.onSaved, onSaved)
}

// save reports the i-th requested icon as written.
func (a *recordingAvatars) save(i int) {
	a.mu.Lock()
	onSaved := a.onSaved[i]
	a.mu.Unlock()
	onSaved()
}

func (a *recordingAvatars) Requests() []domain.AvatarRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AvatarRequest(nil), a.requests...)
}

// memoryContacts is a ContactRepository that outlives the sessions using
// it, standing in for the accounts file across restarts.
type memoryContacts struct {
	mu       sync.Mutex
	contacts map[domain.AccountID][]domain.Contact
}

func (m *memoryContacts) ListContacts(_ context.Context, id domain.AccountID) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Contact(nil), m.contacts[id]...), nil
}

func (m *memoryContacts) SaveContacts(_ context.Context, id domain.AccountID, contacts []domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.contacts == nil {
		m.contacts = map[domain.AccountID][]domain.Contact{}
	}
	m.contacts[id] = append([]domain.Contact(nil), contacts...)
	return nil
}

type fixedRandom struct {
	u32 uint32
	rid int64
}

func (r fixedRandom) Uint32() uint32 { return r.u32 }

func (r fixedRandom) Int64N(n int64) int64 {
	if r.rid >= n {
		return n - 1
	}
	return r.rid
}

type sessionHarness struct {
	t         *testing.T
	session   *Session
	transport *testutil.FakeTransport
	clock     *testutil.FakeClock
	notifier  *recordingNotifier
	notify    ports.Notifier
	avatars   *recordingAvatars
	fetcher   ports.AvatarFetcher
	roster    *rosteradapter.Roster
}

type harnessOption func(*sessionHarness)

func withRoster(r *rosteradapter.Roster) harnessOption {
	return func(h *sessionHarness) { h.roster = r }
}

func withNotifier(n ports.Notifier) harnessOption {
	return func(h *sessionHarness) { h.notify = n }
}

func withAvatarFetcher(f ports.AvatarFetcher) harnessOption {
	return func(h *sessionHarness) { h.fetcher = f }
}

func newSessionHarness(t *testing.T, account domain.Account, cfg SessionConfig, opts ...harnessOption) *sessionHarness {
	t.Helper()

	h := &sessionHarness{
		t:         t,
		transport: &testutil.FakeTransport{},
		clock:     testutil.NewFakeClock(harnessEpoch),
		notifier:  &recordingNotifier{},
		avatars:   &recordingAvatars{},
		roster:    rosteradapter.New(account.ID, nil),
	}
	h.notify = h.notifier
	h.fetcher = h.avatars
	for _, opt := range opts {
		opt(h)
	}
	h.session = NewSession(account, SessionDeps{
		Transport: h.transport,
		Notifier:  h.notify,
		Roster:    h.roster,
		Avatars:   h.fetcher,
		Clock:     h.clock,
		Random:    fixedRandom{u32: 4242, rid: 1234567},
		Logger:    zerolog.Nop(),
	}, cfg)
	t.Cleanup(h.session.Stop)

	return h
}

func (h *sessionHarness) start() {
	h.t.Helper()
	require.NoError(h.t, h.session.Start(h.t.Context()))
	h.sync()
}

// sync waits until the reactor has processed everything posted so far.
func (h *sessionHarness) sync() SessionSnapshot {
	return h.session.Snapshot()
}

func (h *sessionHarness) completePoll(body string) {
	h.t.Helper()
	require.True(h.t, h.transport.Complete(ports.MethodGet, []byte(body)), "no outstanding poll")
	h.sync()
}

func (h *sessionHarness) completeSend(body string) {
	h.t.Helper()
	require.True(h.t, h.transport.Complete(ports.MethodPost, []byte(body)), "no outstanding send")
	h.sync()
}

func (h *sessionHarness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.sync()
}

func (h *sessionHarness) send(peer, body string) <-chan DeliveryResult {
	h.t.Helper()
	result, err := h.session.Send(peer, body)
	require.NoError(h.t, err)
	h.sync()
	return result
}

func receiveResult(t *testing.T, ch <-chan DeliveryResult) DeliveryResult {
	t.Helper()
	select {
	case result, ok := <-ch:
		require.True(t, ok, "result channel closed without a result")
		return result
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for delivery result")
		return DeliveryResult{}
	}
}

func requireNoResult(t *testing.T, ch <-chan DeliveryResult) {
	t.Helper()
	select {
	case result := <-ch:
		require.FailNow(t, "unexpected delivery result", "state %s", result.State)
	default:
	}
}

func (h *sessionHarness) requestsOf(method ports.Method) []ports.Request {
	var out []ports.Request
	for _, req := range h.transport.Requests() {
		if req.Method == method {
			out = append(out, req)
		}
	}
	return out
}
