package protocol

import (
	"fmt"
	"net/url"

	"github.com/bnema/okc-cli/internal/domain"
)

const (
	EndpointPath = "/instantevents"
	MailboxURL   = "http://www.okcupid.com/mailbox"
)

type PollKind int

const (
	// PollRoutine consumes events and marks them read.
	PollRoutine PollKind = iota
	// PollManual refreshes without marking anything read.
	PollManual
)

func (k PollKind) String() string {
	if k == PollManual {
		return "manual"
	}
	return "routine"
}

// PollPath builds the request path for a poll resuming at cursor. nonce
// fills the cache-busting rand parameter.
func PollPath(cursor domain.Cursor, kind PollKind, nonce uint32) string {
	if kind == PollManual {
		return fmt.Sprintf(
			"%s?rand=0.%d&server_seqid=%d&server_gmt=%d&load_thumbnails=1&buddylist=1&show_offline=1&num_unread=1&im_status=1",
			EndpointPath, nonce, cursor.SequenceID, cursor.ServerTime,
		)
	}

	return fmt.Sprintf(
		"%s?rand=0.%d&server_seqid=%d&server_gmt=%d&load_thumbnails=1&do_event_poll=1&buddylist=1&show_offline=1&num_unread=1&im_status=1&do_post_read=1",
		EndpointPath, nonce, cursor.SequenceID, cursor.ServerTime,
	)
}

// SendForm encodes a send attempt. Field order is fixed.
func SendForm(msg domain.OutgoingMessage, attempt int) string {
	return fmt.Sprintf(
		"send=1&attempt=%d&rid=%d&recipient=%s&topic=false&body=%s",
		attempt, msg.RequestID, url.QueryEscape(msg.Peer), url.QueryEscape(msg.Body),
	)
}
