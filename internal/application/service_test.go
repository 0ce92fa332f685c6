package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tomlrepo "github.com/bnema/okc-cli/internal/adapters/repo/toml"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cookieAuth(ref string) domain.Auth {
	return domain.Auth{Method: domain.AuthMethodSessionCookie, SecretRef: ref}
}

func TestServiceAddAccountCreatesNewAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(domain.Account{}, domain.ErrAccountNotFound)
	want := domain.Account{
		ID:       "acc-1",
		Name:     "Account acc-1",
		Username: "alice",
		Settings: domain.AccountSettings{ShowSentMessages: true},
	}
	repo.EXPECT().Save(mockAnyContext(), want).Return(nil)

	account, err := service.AddAccount(context.Background(), AddAccountCommand{
		ID:               "acc-1",
		Username:         "alice",
		ShowSentMessages: true,
	})
	require.NoError(t, err)
	assert.Equal(t, want, account)
}

func TestServiceAddAccountKeepsExistingAuth(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	existing := domain.Account{ID: "acc-1", Name: "Old", Auth: cookieAuth("okc://acc-1/session_cookie")}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(existing, nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{
		ID:       "acc-1",
		Name:     "Primary",
		Username: "alice",
		Auth:     cookieAuth("okc://acc-1/session_cookie"),
	}).Return(nil)

	_, err := service.AddAccount(context.Background(), AddAccountCommand{ID: "acc-1", Name: "Primary", Username: "alice"})
	require.NoError(t, err)
}

func TestServiceAddAccountReturnsLookupError(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	lookupErr := errors.New("file is corrupt")
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(domain.Account{}, lookupErr)

	_, err := service.AddAccount(context.Background(), AddAccountCommand{ID: "acc-1"})
	require.ErrorIs(t, err, lookupErr)
}

func TestServiceSetAuthSuccess(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	account := domain.Account{ID: "acc-1", Name: "Primary"}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-1/session_cookie", "session=abc").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{
		ID:   "acc-1",
		Name: "Primary",
		Auth: cookieAuth("okc://acc-1/session_cookie"),
	}).Return(nil)

	err := service.SetAuth(context.Background(), SetAuthCommand{ID: "acc-1", SecretValue: "session=abc"})
	require.NoError(t, err)
}

func TestServiceSetAuthCreatesMissingAccount(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-2")).Return(domain.Account{}, domain.ErrAccountNotFound)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-2/session_cookie", "session=abc").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{
		ID:   "acc-2",
		Name: "Account acc-2",
		Auth: cookieAuth("okc://acc-2/session_cookie"),
	}).Return(nil)

	err := service.SetAuth(context.Background(), SetAuthCommand{ID: "acc-2", SecretValue: "session=abc"})
	require.NoError(t, err)
}

func TestServiceSetAuthRejectsBlankCookie(t *testing.T) {
	service := NewService(mocks.NewMockAccountRepository(t), mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	err := service.SetAuth(context.Background(), SetAuthCommand{ID: "acc-1", SecretValue: "  \n"})
	require.ErrorIs(t, err, ErrEmptySessionCookie)
}

func TestServiceSetAuthRotationDeletesPreviousSecretRef(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	account := domain.Account{ID: "acc-1", Name: "Primary", Auth: cookieAuth("okc://acc-1/old_cookie")}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-1/new_cookie", "session=new").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{
		ID:   "acc-1",
		Name: "Primary",
		Auth: cookieAuth("okc://acc-1/new_cookie"),
	}).Return(nil)
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/old_cookie").Return(nil)

	err := service.SetAuth(context.Background(), SetAuthCommand{
		ID:          "acc-1",
		SecretKey:   "okc://acc-1/new_cookie",
		SecretValue: "session=new",
	})
	require.NoError(t, err)
}

func TestServiceSetAuthRotationRollsBackWhenPreviousSecretDeleteFails(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	deleteErr := errors.New("delete old secret failed")
	account := domain.Account{ID: "acc-1", Name: "Primary", Auth: cookieAuth("okc://acc-1/old_cookie")}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-1/new_cookie", "session=new").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{
		ID:   "acc-1",
		Name: "Primary",
		Auth: cookieAuth("okc://acc-1/new_cookie"),
	}).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/old_cookie").Return(deleteErr)
	repo.EXPECT().Save(mockAnyContext(), account).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/new_cookie").Return(nil)

	err := service.SetAuth(context.Background(), SetAuthCommand{
		ID:          "acc-1",
		SecretKey:   "okc://acc-1/new_cookie",
		SecretValue: "session=new",
	})
	require.ErrorIs(t, err, deleteErr)
}

func TestServiceSetAuthFailsWhenSecretStorePutFails(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	putErr := errors.New("pass insert failed")
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(domain.Account{ID: "acc-1"}, nil)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-1/session_cookie", "session=abc").Return(putErr)

	err := service.SetAuth(context.Background(), SetAuthCommand{ID: "acc-1", SecretValue: "session=abc"})
	require.ErrorIs(t, err, putErr)
}

func TestServiceSetAuthFailsWhenSaveFailsAndCompensatesSecretWrite(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	saveErr := errors.New("disk full")
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(domain.Account{ID: "acc-1"}, nil)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-1/session_cookie", "session=abc").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/session_cookie").Return(nil)

	err := service.SetAuth(context.Background(), SetAuthCommand{ID: "acc-1", SecretValue: "session=abc"})
	require.ErrorIs(t, err, saveErr)
}

func TestServiceSetAuthFailsWhenRollbackDeleteFails(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	saveErr := errors.New("disk full")
	rollbackErr := errors.New("secret dir read-only")
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(domain.Account{ID: "acc-1"}, nil)
	store.EXPECT().Put(mockAnyContext(), "okc://acc-1/session_cookie", "session=abc").Return(nil)
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(saveErr)
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/session_cookie").Return(rollbackErr)

	err := service.SetAuth(context.Background(), SetAuthCommand{ID: "acc-1", SecretValue: "session=abc"})
	require.ErrorIs(t, err, saveErr)
	require.ErrorIs(t, err, rollbackErr)
}

func TestServiceRemoveAuthSuccess(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	account := domain.Account{ID: "acc-1", Name: "Primary", Auth: cookieAuth("okc://acc-1/session_cookie")}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{ID: "acc-1", Name: "Primary"}).Return(nil)
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/session_cookie").Return(nil)

	require.NoError(t, service.RemoveAuth(context.Background(), "acc-1"))
}

func TestServiceRemoveAuthRestoresRefWhenDeleteFails(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	deleteErr := errors.New("pass rm failed")
	account := domain.Account{ID: "acc-1", Name: "Primary", Auth: cookieAuth("okc://acc-1/session_cookie")}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	repo.EXPECT().Save(mockAnyContext(), domain.Account{ID: "acc-1", Name: "Primary"}).Return(nil).Once()
	store.EXPECT().Delete(mockAnyContext(), "okc://acc-1/session_cookie").Return(deleteErr)
	repo.EXPECT().Save(mockAnyContext(), account).Return(nil).Once()

	err := service.RemoveAuth(context.Background(), "acc-1")
	require.ErrorIs(t, err, deleteErr)
}

func TestServiceRemoveAuthWithoutSecretOnlySaves(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	account := domain.Account{ID: "acc-1", Name: "Primary"}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	repo.EXPECT().Save(mockAnyContext(), account).Return(nil)

	require.NoError(t, service.RemoveAuth(context.Background(), "acc-1"))
}

func TestServiceSessionCookie(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	store := mocks.NewMockSecretStore(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), store)

	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).
		Return(domain.Account{ID: "acc-1", Auth: cookieAuth("okc://acc-1/session_cookie")}, nil)
	store.EXPECT().Get(mockAnyContext(), "okc://acc-1/session_cookie").Return("session=abc\n", nil)

	cookie, err := service.SessionCookie(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "session=abc", cookie)
}

func TestServiceSessionCookieWithoutAuth(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(domain.Account{ID: "acc-1"}, nil)

	_, err := service.SessionCookie(context.Background(), "acc-1")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestServiceGetStatusIncludesSavedContacts(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	contacts := mocks.NewMockContactRepository(t)
	service := NewService(repo, contacts, mocks.NewMockSecretStore(t))

	account := domain.Account{ID: "acc-1", Name: "Primary", Auth: cookieAuth("okc://acc-1/session_cookie")}
	saved := []domain.Contact{{Name: "bob", AvatarFingerprint: "http://cdn.okcimg.com/x.jpg"}}
	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("acc-1")).Return(account, nil)
	contacts.EXPECT().ListContacts(mockAnyContext(), domain.AccountID("acc-1")).Return(saved, nil)

	status, err := service.GetStatus(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, account, status.Account)
	assert.Equal(t, saved, status.Contacts)
	assert.True(t, status.HasSession)
}

func TestServiceGetStatusAll(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	contacts := mocks.NewMockContactRepository(t)
	service := NewService(repo, contacts, mocks.NewMockSecretStore(t))

	repo.EXPECT().List(mockAnyContext()).Return([]domain.Account{
		{ID: "acc-1", Name: "Primary"},
		{ID: "acc-2", Name: "Secondary"},
	}, nil)
	contacts.EXPECT().ListContacts(mockAnyContext(), domain.AccountID("acc-1")).Return(nil, nil)
	contacts.EXPECT().ListContacts(mockAnyContext(), domain.AccountID("acc-2")).Return([]domain.Contact{{Name: "bob"}}, nil)

	statuses, err := service.GetStatusAll(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].HasSession)
	assert.Equal(t, []domain.Contact{{Name: "bob"}}, statuses[1].Contacts)
}

func TestServiceGetStatusReturnsRepositoryError(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	repo.EXPECT().GetByID(mockAnyContext(), domain.AccountID("missing")).Return(domain.Account{}, domain.ErrAccountNotFound)

	_, err := service.GetStatus(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestServiceGetStatusAllReturnsListError(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	service := NewService(repo, mocks.NewMockContactRepository(t), mocks.NewMockSecretStore(t))

	listErr := errors.New("list failed")
	repo.EXPECT().List(mockAnyContext()).Return(nil, listErr)

	_, err := service.GetStatusAll(context.Background())
	require.ErrorIs(t, err, listErr)
}

func TestServiceAccountsAndContactsPersistAcrossInstances(t *testing.T) {
	t.Parallel()

	cfg := viper.New()
	cfg.Set("accounts.path", filepath.Join(t.TempDir(), "accounts.toml"))

	repo, err := tomlrepo.NewRepository(cfg)
	require.NoError(t, err)

	serviceA := NewService(repo, repo, mocks.NewMockSecretStore(t))
	_, err = serviceA.AddAccount(context.Background(), AddAccountCommand{ID: "acc-1", Name: "Primary", Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, repo.SaveContacts(context.Background(), "acc-1", []domain.Contact{{Name: "bob"}}))

	serviceB := NewService(repo, repo, mocks.NewMockSecretStore(t))
	status, err := serviceB.GetStatus(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", status.Account.Username)
	assert.Equal(t, []domain.Contact{{Name: "bob"}}, status.Contacts)
}

func mockAnyContext() interface{} {
	return mock.Anything
}
