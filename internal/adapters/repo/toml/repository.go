package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	AccountsPathKey    = "accounts.path"
	accountsFileMode   = 0o600
	accountsDirMode    = 0o700
	accountsConfigDir  = ".okc"
	accountsConfigFile = "accounts.toml"
	tempFilePattern    = ".accounts-*.toml.tmp"
)

// Repository stores accounts and their saved rosters in one TOML file.
// Instances pointing at the same path share a lock.
type Repository struct {
	accountsPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var (
	_ ports.AccountRepository = (*Repository)(nil)
	_ ports.ContactRepository = (*Repository)(nil)
)

// NewRepository resolves the accounts file from accounts.path, defaulting
// to ~/.okc/accounts.toml.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if !cfg.IsSet(AccountsPathKey) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SetDefault(AccountsPathKey, filepath.Join(homeDir, accountsConfigDir, accountsConfigFile))
	}

	accountsPath := cfg.GetString(AccountsPathKey)
	if accountsPath == "" {
		return nil, errors.New("accounts path is empty")
	}
	accountsPath, err := normalizeAccountsPath(accountsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{accountsPath: accountsPath, mu: lockForPath(accountsPath)}, nil
}

// Path is the resolved accounts file.
func (r *Repository) Path() string {
	return r.accountsPath
}

// Save creates or replaces an account. The saved roster is kept.
func (r *Repository) Save(ctx context.Context, account domain.Account) error {
	return r.update(ctx, func(file *fileSchema) error {
		encoded := toSchema(account)
		if i, ok := file.find(encoded.ID); ok {
			encoded.Contacts = file.Accounts[i].Contacts
			file.Accounts[i] = encoded
			return nil
		}
		file.Accounts = append(file.Accounts, encoded)
		return nil
	})
}

func (r *Repository) GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	var account domain.Account
	err := r.view(ctx, func(file fileSchema) error {
		i, ok := file.find(string(id))
		if !ok {
			return domain.ErrAccountNotFound
		}
		account = fromSchema(file.Accounts[i])
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.view(ctx, func(file fileSchema) error {
		accounts = make([]domain.Account, 0, len(file.Accounts))
		for _, entry := range file.Accounts {
			accounts = append(accounts, fromSchema(entry))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// ListContacts returns the saved roster of an account.
func (r *Repository) ListContacts(ctx context.Context, id domain.AccountID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.view(ctx, func(file fileSchema) error {
		i, ok := file.find(string(id))
		if !ok {
			return fmt.Errorf("list contacts for %s: %w", id, domain.ErrAccountNotFound)
		}
		for _, entry := range file.Accounts[i].Contacts {
			contacts = append(contacts, domain.Contact{Name: entry.Name, AvatarFingerprint: entry.AvatarFingerprint})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// SaveContacts replaces the saved roster of an account. Presence and
// suppression flags are not stored.
func (r *Repository) SaveContacts(ctx context.Context, id domain.AccountID, contacts []domain.Contact) error {
	return r.update(ctx, func(file *fileSchema) error {
		i, ok := file.find(string(id))
		if !ok {
			return fmt.Errorf("save contacts for %s: %w", id, domain.ErrAccountNotFound)
		}

		encoded := make([]contactSchema, 0, len(contacts))
		for _, contact := range contacts {
			if contact.Name == "" {
				continue
			}
			encoded = append(encoded, contactSchema{Name: contact.Name, AvatarFingerprint: contact.AvatarFingerprint})
		}
		file.Accounts[i].Contacts = encoded
		return nil
	})
}

func (r *Repository) view(ctx context.Context, fn func(fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	return fn(file)
}

func (r *Repository) update(ctx context.Context, fn func(*fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	if err := fn(&file); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.accountsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read accounts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode accounts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeAccountsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve accounts path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

// writeSchema replaces the accounts file through a temp file in the same
// directory.
func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.accountsPath), accountsDirMode); err != nil {
		return fmt.Errorf("create accounts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode accounts file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.accountsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp accounts file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp accounts file: %w", err)
	}
	if err := tempFile.Chmod(accountsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp accounts file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp accounts file: %w", err)
	}

	if err := os.Rename(tempName, r.accountsPath); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(account domain.Account) accountSchema {
	return accountSchema{
		ID:       string(account.ID),
		Name:     account.Name,
		Username: account.Username,
		Settings: settingsSchema{ShowSentMessages: account.Settings.ShowSentMessages},
		Auth: authSchema{
			Method:    string(account.Auth.Method),
			SecretRef: account.Auth.SecretRef,
		},
	}
}

func fromSchema(account accountSchema) domain.Account {
	return domain.Account{
		ID:       domain.AccountID(account.ID),
		Name:     account.Name,
		Username: account.Username,
		Settings: domain.AccountSettings{ShowSentMessages: account.Settings.ShowSentMessages},
		Auth: domain.Auth{
			Method:    domain.AuthMethod(account.Auth.Method),
			SecretRef: account.Auth.SecretRef,
		},
	}
}
