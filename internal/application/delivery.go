package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/markup"
	"github.com/bnema/okc-cli/internal/metrics"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/bnema/okc-cli/internal/protocol"
)

const (
	maxRequestID       = 2_000_000_000
	undeliveredMessage = "Message could not be delivered"
)

var ErrEmptyRecipient = errors.New("recipient is empty")

// DeliveryResult is the terminal outcome of one Send.
type DeliveryResult struct {
	Message domain.OutgoingMessage
	State   domain.DeliveryState
	Err     error
}

type delivery struct {
	msg        domain.OutgoingMessage
	result     chan DeliveryResult
	retryTimer ports.Timer
}

// Send queues a message for delivery. Validation errors are returned
// directly; every other outcome arrives once on the returned channel,
// which is then closed.
func (s *Session) Send(peer, body string) (<-chan DeliveryResult, error) {
	peer = strings.TrimSpace(peer)
	if peer == "" {
		return nil, ErrEmptyRecipient
	}

	plain := strings.TrimRight(markup.StripHTML(body), " \t")
	if err := domain.ValidateBody(plain); err != nil {
		return nil, fmt.Errorf("send to %s: %w", peer, err)
	}

	result := make(chan DeliveryResult, 1)
	msg := domain.OutgoingMessage{Peer: peer, Body: plain, State: domain.DeliveryPending}
	if !s.active() || !s.reactor.post(func() { s.beginDelivery(msg, result) }) {
		return nil, domain.ErrSessionClosed
	}

	return result, nil
}

func (s *Session) beginDelivery(msg domain.OutgoingMessage, result chan DeliveryResult) {
	s.deliverySeq++
	key := s.deliverySeq
	msg.RequestID = s.rng.Int64N(maxRequestID)
	d := &delivery{msg: msg, result: result}

	if !s.running {
		s.finish(key, d, domain.DeliveryAbandoned, domain.ErrSessionClosed)
		return
	}

	s.deliveries[key] = d
	s.submit(key, d)
}

func (s *Session) submit(key uint64, d *delivery) {
	d.retryTimer = nil
	d.msg.AttemptCount++
	d.msg.State = domain.DeliverySubmitted
	d.msg.SubmittedAt = s.clock.Now()
	attempt := d.msg.AttemptCount

	metrics.SendAttempts.Inc()
	s.logger.Debug().
		Str("peer", d.msg.Peer).
		Int64("rid", d.msg.RequestID).
		Int("attempt", attempt).
		Msg("Submitting message")

	s.transport.Issue(s.ctx, ports.Request{
		Method: ports.MethodPost,
		Path:   protocol.EndpointPath,
		Body:   protocol.SendForm(d.msg, attempt),
	}, func(body []byte) {
		s.reactor.post(func() { s.onSendComplete(key, attempt, body) })
	})
}

func (s *Session) onSendComplete(key uint64, attempt int, body []byte) {
	d, ok := s.deliveries[key]
	if !ok || !s.running || d.msg.AttemptCount != attempt {
		return
	}

	if len(body) == 0 {
		s.retryOrFail(key, d)
		return
	}

	ack, err := protocol.DecodeAck(body)
	if err != nil {
		s.logger.Warn().Err(err).Int64("rid", d.msg.RequestID).Msg("Discarding undecodable send reply")
		s.finish(key, d, domain.DeliveryFailed, err)
		return
	}

	if ack.Accepted() {
		s.finish(key, d, domain.DeliveryAcknowledged, nil)
		s.triggerPoll(protocol.PollManual)
		return
	}

	rejection := &domain.RejectionError{Status: ack.Status, Reason: ack.Reason}
	reasonLabel := string(ack.Reason)
	if text := ack.Reason.UserMessage(); text != "" {
		s.notifier.ErrorMessage(d.msg.Peer, text)
	} else {
		reasonLabel = "unknown"
		s.logger.Warn().
			Str("peer", d.msg.Peer).
			Int("status", ack.Status).
			Str("reason", string(ack.Reason)).
			Msg("Message rejected for an unrecognized reason")
	}
	metrics.SendRejections.WithLabelValues(reasonLabel).Inc()
	s.finish(key, d, domain.DeliveryFailed, rejection)
}

func (s *Session) retryOrFail(key uint64, d *delivery) {
	if d.msg.AttemptCount >= s.cfg.MaxSendAttempts {
		s.logger.Warn().
			Str("peer", d.msg.Peer).
			Int64("rid", d.msg.RequestID).
			Int("attempts", d.msg.AttemptCount).
			Msg("Giving up on message after repeated empty replies")
		s.notifier.ErrorMessage(d.msg.Peer, undeliveredMessage)
		s.finish(key, d, domain.DeliveryFailed,
			fmt.Errorf("send to %s after %d attempts: %w", d.msg.Peer, d.msg.AttemptCount, domain.ErrTransportFailure))
		return
	}

	d.msg.State = domain.DeliveryRetrying
	delay := s.retryDelay(d.msg.AttemptCount)
	s.logger.Debug().
		Int64("rid", d.msg.RequestID).
		Int("attempt", d.msg.AttemptCount).
		Dur("delay", delay).
		Msg("Empty send reply; retrying")

	d.retryTimer = s.clock.AfterFunc(delay, func() {
		s.reactor.post(func() { s.onRetryTimer(key, d) })
	})
}

func (s *Session) onRetryTimer(key uint64, d *delivery) {
	current, ok := s.deliveries[key]
	if !ok || current != d || !s.running || d.msg.State != domain.DeliveryRetrying {
		return
	}
	s.submit(key, d)
}

// retryDelay doubles the base delay per failed attempt, up to the cap.
func (s *Session) retryDelay(failedAttempts int) time.Duration {
	delay := s.cfg.RetryBaseDelay
	for i := 1; i < failedAttempts && delay < s.cfg.RetryMaxDelay; i++ {
		delay *= 2
	}
	if delay > s.cfg.RetryMaxDelay {
		delay = s.cfg.RetryMaxDelay
	}
	return delay
}

func (s *Session) finish(key uint64, d *delivery, state domain.DeliveryState, err error) {
	delete(s.deliveries, key)
	if d.retryTimer != nil {
		d.retryTimer.Stop()
		d.retryTimer = nil
	}
	d.msg.State = state
	metrics.SendOutcomes.WithLabelValues(state.String()).Inc()

	d.result <- DeliveryResult{Message: d.msg, State: state, Err: err}
	close(d.result)
}
