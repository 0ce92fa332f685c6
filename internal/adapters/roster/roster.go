// Package roster keeps an account's contacts in memory and writes the
// persistable ones back through a ContactRepository.
package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/ports"
)

// Roster is not safe for concurrent use. The owning session serializes
// access; read it from elsewhere only after the session stopped.
type Roster struct {
	accountID domain.AccountID
	repo      ports.ContactRepository
	contacts  map[string]*domain.Contact
	stored    map[string]string
}

var (
	_ ports.Roster          = (*Roster)(nil)
	_ ports.RosterPersister = (*Roster)(nil)
)

// New returns an empty roster. repo may be nil for a roster that is never
// saved.
func New(accountID domain.AccountID, repo ports.ContactRepository) *Roster {
	return &Roster{
		accountID: accountID,
		repo:      repo,
		contacts:  map[string]*domain.Contact{},
		stored:    map[string]string{},
	}
}

// Load replaces the in-memory roster with the saved one. Saved contacts
// start offline with their fingerprint only available through
// StoredAvatarFingerprint.
func (r *Roster) Load(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}

	saved, err := r.repo.ListContacts(ctx, r.accountID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	r.contacts = make(map[string]*domain.Contact, len(saved))
	r.stored = make(map[string]string, len(saved))
	for _, contact := range saved {
		r.contacts[contact.Name] = &domain.Contact{Name: contact.Name}
		if contact.AvatarFingerprint != "" {
			r.stored[contact.Name] = contact.AvatarFingerprint
		}
	}

	return nil
}

func (r *Roster) FindContact(name string) (*domain.Contact, bool) {
	contact, ok := r.contacts[name]
	return contact, ok
}

func (r *Roster) CreateContact(name string) *domain.Contact {
	if contact, ok := r.contacts[name]; ok {
		return contact
	}
	contact := &domain.Contact{Name: name}
	r.contacts[name] = contact
	return contact
}

func (r *Roster) StoredAvatarFingerprint(contact *domain.Contact) (string, bool) {
	if contact == nil {
		return "", false
	}
	fingerprint, ok := r.stored[contact.Name]
	return fingerprint, ok
}

func (r *Roster) RecordAvatar(contact *domain.Contact, fingerprint string) {
	if contact == nil || fingerprint == "" {
		return
	}
	r.stored[contact.Name] = fingerprint
}

// Persist saves every contact not marked SuppressPersistence, each with the
// fingerprint of its saved icon rather than the latest one announced.
func (r *Roster) Persist(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}

	persistable := make([]domain.Contact, 0, len(r.contacts))
	for _, contact := range r.Contacts() {
		if !contact.Persistable() {
			continue
		}
		contact.AvatarFingerprint = r.stored[contact.Name]
		contact.Online = false
		persistable = append(persistable, contact)
	}

	if err := r.repo.SaveContacts(ctx, r.accountID, persistable); err != nil {
		return fmt.Errorf("persist roster: %w", err)
	}

	return nil
}

// Contacts returns copies of all contacts sorted by name.
func (r *Roster) Contacts() []domain.Contact {
	out := make([]domain.Contact, 0, len(r.contacts))
	for _, contact := range r.contacts {
		out = append(out, *contact)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
