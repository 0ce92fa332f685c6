package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s *fileSchema) find(id string) (int, bool) {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

type accountSchema struct {
	ID       string          `toml:"id"`
	Name     string          `toml:"name"`
	Username string          `toml:"username,omitempty"`
	Settings settingsSchema  `toml:"settings"`
	Auth     authSchema      `toml:"auth"`
	Contacts []contactSchema `toml:"contacts,omitempty"`
}

type settingsSchema struct {
	ShowSentMessages bool `toml:"show_sent_messages"`
}

type authSchema struct {
	Method    string `toml:"method"`
	SecretRef string `toml:"secret_ref"`
}

type contactSchema struct {
	Name              string `toml:"name"`
	AvatarFingerprint string `toml:"avatar_fingerprint,omitempty"`
}
