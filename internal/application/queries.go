package application

import "github.com/bnema/okc-cli/internal/domain"

type Status struct {
	Account    domain.Account
	Contacts   []domain.Contact
	HasSession bool
}
