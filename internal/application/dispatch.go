package application

import (
	"context"
	"fmt"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/markup"
	"github.com/bnema/okc-cli/internal/metrics"
	"github.com/bnema/okc-cli/internal/ports"
)

// applyBatch dispatches a decoded batch and reports whether it completed.
// The cursor moves only after people, events and the unread count were all
// handled, so a batch that fails part way is fetched again. State changes
// are recorded after the notifier accepted them.
func (s *Session) applyBatch(batch domain.Batch) (applied bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Int64("seqid", s.cursor.SequenceID).
				Msg("Batch dispatch failed; cursor not advanced")
			applied = false
		}
	}()

	if batch.Skipped > 0 {
		metrics.EntriesSkipped.Add(float64(batch.Skipped))
		s.logger.Debug().Int("skipped", batch.Skipped).Msg("Skipped undecodable batch entries")
	}

	s.applyPeople(batch.People)
	s.applyEvents(batch.Events)
	s.applyUnreadCount(batch.UnreadCount)

	s.cursor = s.cursor.Advance(batch.SequenceID, batch.ServerTime)
	metrics.BatchesApplied.Inc()

	s.persistRoster(s.ctx)
	return true
}

func (s *Session) applyPeople(people []domain.PersonSnapshot) {
	for _, person := range people {
		contact, created := s.findOrCreateContact(person.Name)
		if created {
			s.rosterDirty = true
		}
		s.seedFingerprint(contact)

		if person.Online != contact.Online {
			s.notifier.PresenceChanged(contact.Name, person.Online)
			contact.Online = person.Online
		}

		// An empty thumbnail means no icon, not a changed one. The saved
		// fingerprint moves only once the new icon is on disk.
		if person.Thumbnail == "" || person.Thumbnail == contact.AvatarFingerprint {
			continue
		}
		contact.AvatarFingerprint = person.Thumbnail
		s.requestAvatar(contact.Name, person.Thumbnail)
	}
}

func (s *Session) applyEvents(events []domain.Event) {
	for _, event := range events {
		metrics.EventsDispatched.WithLabelValues(domain.EventType(event)).Inc()

		switch ev := event.(type) {
		case domain.InstantMessage:
			s.applyInstantMessage(ev)
		case domain.PresenceLost:
			contact, ok := s.roster.FindContact(ev.Peer)
			if ok && contact.Online {
				s.notifier.PresenceChanged(contact.Name, false)
				contact.Online = false
			}
		case domain.ProfileViewed:
			// A viewer is never written back, even one already saved.
			contact, _ := s.findOrCreateContact(ev.Peer)
			if contact.Persistable() {
				s.rosterDirty = true
			}
			contact.SuppressPersistence = true
			s.logger.Debug().Str("peer", ev.Peer).Msg("Profile viewed")
		case domain.UnknownEvent:
			s.logger.Debug().Str("type", ev.Type).Msg("Ignoring unknown event type")
		}
	}
}

func (s *Session) applyInstantMessage(msg domain.InstantMessage) {
	contact, created := s.findOrCreateContact(msg.Peer)
	if created {
		contact.SuppressPersistence = true
	}

	if msg.Direction == domain.DirectionSent && !s.account.Settings.ShowSentMessages {
		return
	}

	s.notifier.MessageReceived(msg.Peer, markup.EscapeHTML(msg.Body), msg.Direction, s.clock.Now())
}

func (s *Session) applyUnreadCount(count *int) {
	if count == nil || *count == s.lastUnread {
		return
	}
	s.notifier.MailboxCountChanged(*count, s.cfg.MailboxURL)
	s.lastUnread = *count
}

func (s *Session) findOrCreateContact(name string) (*domain.Contact, bool) {
	if contact, ok := s.roster.FindContact(name); ok {
		return contact, false
	}
	return s.roster.CreateContact(name), true
}

// seedFingerprint loads the saved icon fingerprint the first time a
// contact shows up in this session.
func (s *Session) seedFingerprint(contact *domain.Contact) {
	if _, done := s.fingerprintLoaded[contact.Name]; done {
		return
	}
	s.fingerprintLoaded[contact.Name] = struct{}{}

	if contact.AvatarFingerprint != "" {
		return
	}
	if stored, ok := s.roster.StoredAvatarFingerprint(contact); ok {
		contact.AvatarFingerprint = stored
	}
}

func (s *Session) requestAvatar(contact, thumbnail string) {
	if s.avatars == nil {
		return
	}
	req := domain.NewAvatarRequest(contact, thumbnail, s.cfg.AvatarHost)
	s.logger.Debug().Str("peer", contact).Str("path", req.Path).Msg("Refreshing avatar")
	s.avatars.FetchAvatar(s.ctx, req, func() {
		s.reactor.post(func() { s.onAvatarSaved(contact, thumbnail) })
	})
}

// onAvatarSaved records the fingerprint of a written icon and saves the
// roster so the next run does not fetch it again.
func (s *Session) onAvatarSaved(name, fingerprint string) {
	contact, ok := s.roster.FindContact(name)
	if !ok {
		return
	}
	s.roster.RecordAvatar(contact, fingerprint)
	if contact.Persistable() {
		s.rosterDirty = true
	}
	if s.running {
		s.persistRoster(s.ctx)
	}
}

func (s *Session) persistRoster(ctx context.Context) {
	if !s.rosterDirty {
		return
	}
	persister, ok := s.roster.(ports.RosterPersister)
	if !ok {
		s.rosterDirty = false
		return
	}
	if err := persister.Persist(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist roster")
		return
	}
	s.rosterDirty = false
}
