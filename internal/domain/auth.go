package domain

import "fmt"

type AuthMethod string

const (
	AuthMethodSessionCookie AuthMethod = "session_cookie"
)

type Auth struct {
	Method AuthMethod
	// SecretRef points to a secret-store entry, typically in "okc://<account>/<name>" form.
	SecretRef string
}

func SessionCookieSecretRef(id AccountID) string {
	return fmt.Sprintf("okc://%s/session_cookie", id)
}
