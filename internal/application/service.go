package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/ports"
)

var ErrEmptySessionCookie = errors.New("session cookie is empty")

type Service struct {
	repo     ports.AccountRepository
	contacts ports.ContactRepository
	store    ports.SecretStore
}

func NewService(repo ports.AccountRepository, contacts ports.ContactRepository, store ports.SecretStore) *Service {
	return &Service{
		repo:     repo,
		contacts: contacts,
		store:    store,
	}
}

// AddAccount creates the account or updates its profile fields. Stored
// auth is left untouched.
func (s *Service) AddAccount(ctx context.Context, cmd AddAccountCommand) (domain.Account, error) {
	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Account{}, fmt.Errorf("get account by id: %w", err)
		}
		account = domain.Account{ID: cmd.ID}
	}

	account.Name = cmd.Name
	if account.Name == "" {
		account.Name = fmt.Sprintf("Account %s", cmd.ID)
	}
	account.Username = cmd.Username
	account.Settings.ShowSentMessages = cmd.ShowSentMessages

	if err := s.repo.Save(ctx, account); err != nil {
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	return account, nil
}

func (s *Service) SetAuth(ctx context.Context, cmd SetAuthCommand) error {
	if strings.TrimSpace(cmd.SecretValue) == "" {
		return ErrEmptySessionCookie
	}

	secretKey := cmd.SecretKey
	if secretKey == "" {
		secretKey = domain.SessionCookieSecretRef(cmd.ID)
	}

	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("get account by id: %w", err)
		}
		account = domain.Account{ID: cmd.ID, Name: fmt.Sprintf("Account %s", cmd.ID)}
	}
	originalAccount := account
	previousSecretRef := account.Auth.SecretRef

	if err := s.store.Put(ctx, secretKey, cmd.SecretValue); err != nil {
		return fmt.Errorf("store auth secret: %w", err)
	}

	account.Auth = domain.Auth{
		Method:    domain.AuthMethodSessionCookie,
		SecretRef: secretKey,
	}

	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretKey); rollbackErr != nil {
			return fmt.Errorf("save account auth and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save account auth: %w", err)
	}

	if previousSecretRef == "" || previousSecretRef == secretKey {
		return nil
	}

	if err := s.store.Delete(ctx, previousSecretRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, originalAccount); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretKey); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous auth secret and rollback auth update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous auth secret: %w", err)
	}

	return nil
}

func (s *Service) RemoveAuth(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}
	originalAccount := account
	secretRef := account.Auth.SecretRef

	account.Auth = domain.Auth{}
	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account auth: %w", err)
	}

	if secretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, secretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, originalAccount); restoreErr != nil {
			return fmt.Errorf("delete auth secret and restore ref: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete auth secret: %w", err)
	}

	return nil
}

// SessionCookie resolves the stored cookie for an account.
func (s *Service) SessionCookie(ctx context.Context, id domain.AccountID) (string, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get account by id: %w", err)
	}
	if account.Auth.SecretRef == "" {
		return "", fmt.Errorf("account %s: %w", id, domain.ErrSecretNotFound)
	}

	cookie, err := s.store.Get(ctx, account.Auth.SecretRef)
	if err != nil {
		return "", fmt.Errorf("load session cookie: %w", err)
	}

	return strings.TrimSpace(cookie), nil
}

func (s *Service) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) GetStatus(ctx context.Context, id domain.AccountID) (Status, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("get account by id: %w", err)
	}

	return s.statusFromAccount(ctx, account)
}

func (s *Service) GetStatusAll(ctx context.Context) ([]Status, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	statuses := make([]Status, 0, len(accounts))
	for _, account := range accounts {
		status, err := s.statusFromAccount(ctx, account)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (s *Service) statusFromAccount(ctx context.Context, account domain.Account) (Status, error) {
	contacts, err := s.contacts.ListContacts(ctx, account.ID)
	if err != nil {
		return Status{}, fmt.Errorf("list contacts for %s: %w", account.ID, err)
	}

	return Status{
		Account:    account,
		Contacts:   contacts,
		HasSession: account.Auth.SecretRef != "",
	}, nil
}
