package ports

import (
	"context"

	"github.com/bnema/okc-cli/internal/domain"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
}

// ContactRepository stores the persistable part of each account's roster.
type ContactRepository interface {
	ListContacts(ctx context.Context, id domain.AccountID) ([]domain.Contact, error)
	SaveContacts(ctx context.Context, id domain.AccountID, contacts []domain.Contact) error
}
