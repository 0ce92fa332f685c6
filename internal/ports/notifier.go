package ports

import (
	"time"

	"github.com/bnema/okc-cli/internal/domain"
)

// Notifier surfaces sync results to the user.
type Notifier interface {
	MessageReceived(peer, body string, direction domain.Direction, at time.Time)
	ErrorMessage(peer, text string)
	PresenceChanged(peer string, online bool)
	MailboxCountChanged(count int, url string)
}
