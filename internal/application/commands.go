package application

import "github.com/bnema/okc-cli/internal/domain"

type AddAccountCommand struct {
	ID               domain.AccountID
	Name             string
	Username         string
	ShowSentMessages bool
}

type SetAuthCommand struct {
	ID domain.AccountID
	// SecretKey defaults to the account's session cookie ref when empty.
	SecretKey   string
	SecretValue string
}
