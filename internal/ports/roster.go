package ports

import (
	"context"

	"github.com/bnema/okc-cli/internal/domain"
)

// Roster owns the contacts of one account. Returned pointers stay valid and
// may be mutated by the caller.
type Roster interface {
	FindContact(name string) (*domain.Contact, bool)
	CreateContact(name string) *domain.Contact
	// StoredAvatarFingerprint returns the fingerprint of the icon currently
	// saved for the contact, if any.
	StoredAvatarFingerprint(contact *domain.Contact) (string, bool)
	// RecordAvatar notes that the icon with fingerprint is now saved for
	// the contact.
	RecordAvatar(contact *domain.Contact, fingerprint string)
}

// RosterPersister is implemented by rosters that save changes explicitly.
type RosterPersister interface {
	Persist(ctx context.Context) error
}

// AvatarFetcher downloads and stores a contact icon. Failures are the
// fetcher's to log; callers do not wait for completion. onSaved, when not
// nil, runs on the fetcher's goroutine once the icon was written, and
// never for a failed or superseded download.
type AvatarFetcher interface {
	FetchAvatar(ctx context.Context, req domain.AvatarRequest, onSaved func())
}
