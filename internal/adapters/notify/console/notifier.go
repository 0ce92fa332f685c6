// Package console prints sync notifications to a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/markup"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const timestampLayout = "15:04"

type styles struct {
	prefix   lipgloss.Style
	received lipgloss.Style
	sent     lipgloss.Style
	body     lipgloss.Style
	online   lipgloss.Style
	offline  lipgloss.Style
	mailbox  lipgloss.Style
	failure  lipgloss.Style
}

func newStyles() styles {
	return styles{
		prefix:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		received: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		sent:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		body:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		online:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		offline:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		mailbox:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		failure:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

// Notifier writes one line per notification. Several sessions may share a
// Notifier; lines are never interleaved.
type Notifier struct {
	account domain.AccountID
	logger  zerolog.Logger
	styles  styles

	mu  sync.Mutex
	out io.Writer
}

var _ ports.Notifier = (*Notifier)(nil)

func New(out io.Writer, account domain.AccountID, logger zerolog.Logger) *Notifier {
	return &Notifier{
		account: account,
		logger:  logger.With().Str("account", string(account)).Str("component", "notifier").Logger(),
		styles:  newStyles(),
		out:     out,
	}
}

func (n *Notifier) MessageReceived(peer, body string, direction domain.Direction, at time.Time) {
	text := markup.StripHTML(body)
	n.logger.Debug().Str("peer", peer).Stringer("direction", direction).Msg("Message surfaced")

	var who string
	if direction == domain.DirectionSent {
		who = n.styles.sent.Render("me -> " + peer)
	} else {
		who = n.styles.received.Render(peer)
	}

	n.println(at, fmt.Sprintf("%s: %s", who, n.styles.body.Render(indentContinuation(text))))
}

func (n *Notifier) ErrorMessage(peer, text string) {
	n.logger.Warn().Str("peer", peer).Str("text", text).Msg("Delivery error surfaced")
	n.println(time.Now(), n.styles.failure.Render(fmt.Sprintf("%s: %s", peer, text)))
}

func (n *Notifier) PresenceChanged(peer string, online bool) {
	n.logger.Debug().Str("peer", peer).Bool("online", online).Msg("Presence changed")
	if online {
		n.println(time.Now(), n.styles.online.Render(peer+" is online"))
		return
	}
	n.println(time.Now(), n.styles.offline.Render(peer+" went offline"))
}

func (n *Notifier) MailboxCountChanged(count int, url string) {
	n.logger.Debug().Int("count", count).Msg("Mailbox count changed")
	n.println(time.Now(), n.styles.mailbox.Render(fmt.Sprintf("%d unread in mailbox (%s)", count, url)))
}

func (n *Notifier) println(at time.Time, line string) {
	prefix := n.styles.prefix.Render(fmt.Sprintf("[%s %s]", at.Local().Format(timestampLayout), n.account))

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintf(n.out, "%s %s\n", prefix, line); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to write notification")
	}
}

func indentContinuation(text string) string {
	return strings.ReplaceAll(strings.TrimRight(text, "\n"), "\n", "\n    ")
}
