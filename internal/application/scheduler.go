package application

import (
	"time"

	"github.com/bnema/okc-cli/internal/metrics"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/bnema/okc-cli/internal/protocol"
)

// PollNow asks for an immediate poll that leaves events unread. It is
// subject to the same throttle as routine polls.
func (s *Session) PollNow() {
	if !s.active() {
		return
	}
	s.reactor.post(func() { s.triggerPoll(protocol.PollManual) })
}

// triggerPoll asks for the next poll. At most one poll is in flight and at
// most one deferred poll is armed; triggers arriving in either state are
// dropped, except that a routine trigger upgrades an armed manual poll.
func (s *Session) triggerPoll(kind protocol.PollKind) {
	if !s.running || s.cfg.DisablePolling || s.polling {
		return
	}
	if s.pollTimer != nil {
		if kind == protocol.PollRoutine {
			s.pendingKind = kind
		}
		return
	}

	if !s.lastPoll.IsZero() {
		elapsed := s.clock.Now().Sub(s.lastPoll)
		if elapsed < s.cfg.MinPollInterval {
			s.armPollTimer(kind, s.cfg.MinPollInterval-elapsed)
			return
		}
	}

	s.issuePoll(kind)
}

func (s *Session) armPollTimer(kind protocol.PollKind, wait time.Duration) {
	s.pendingKind = kind
	s.pollTimerGen++
	gen := s.pollTimerGen
	s.pollTimer = s.clock.AfterFunc(wait, func() {
		s.reactor.post(func() { s.onPollTimer(gen) })
	})
}

func (s *Session) onPollTimer(gen uint64) {
	if !s.running || gen != s.pollTimerGen {
		return
	}
	s.pollTimer = nil
	s.issuePoll(s.pendingKind)
}

func (s *Session) issuePoll(kind protocol.PollKind) {
	s.polling = true
	s.lastPoll = s.clock.Now()
	s.pollSeq++
	seq := s.pollSeq

	path := protocol.PollPath(s.cursor, kind, s.rng.Uint32())
	metrics.PollsIssued.WithLabelValues(kind.String()).Inc()
	s.logger.Debug().
		Str("kind", kind.String()).
		Int64("seqid", s.cursor.SequenceID).
		Int64("gmt", s.cursor.ServerTime).
		Msg("Issuing poll")

	s.transport.Issue(s.ctx, ports.Request{
		Method:   ports.MethodGet,
		Path:     path,
		LongPoll: kind == protocol.PollRoutine,
	}, func(body []byte) {
		s.reactor.post(func() { s.onPollComplete(seq, body) })
	})
}

func (s *Session) onPollComplete(seq uint64, body []byte) {
	if !s.running || seq != s.pollSeq {
		return
	}
	s.polling = false

	s.handlePollBody(body)
	s.triggerPoll(protocol.PollRoutine)
}

func (s *Session) handlePollBody(body []byte) {
	if len(body) == 0 {
		metrics.PollFailures.WithLabelValues("transport").Inc()
		s.logger.Warn().Msg("Poll returned no data")
		return
	}

	s.logger.Trace().Bytes("body", body).Msg("Poll response")

	batch, err := protocol.DecodeBatch(body)
	if err != nil {
		metrics.PollFailures.WithLabelValues("malformed").Inc()
		s.logger.Warn().Err(err).Int("bytes", len(body)).Msg("Discarding undecodable poll response")
		return
	}

	if !s.applyBatch(batch) {
		metrics.PollFailures.WithLabelValues("dispatch").Inc()
	}
}
