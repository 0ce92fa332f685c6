package domain

type AccountID string

type Account struct {
	ID       AccountID
	Name     string
	Username string
	Settings AccountSettings
	Auth     Auth
}

type AccountSettings struct {
	// ShowSentMessages surfaces messages this account sent from another client.
	ShowSentMessages bool
}
