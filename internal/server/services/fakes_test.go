package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/dbx"
	"github.com/dmitrijs2005/loadout/internal/logging"
	"github.com/dmitrijs2005/loadout/internal/server/auth"
	"github.com/dmitrijs2005/loadout/internal/server/botcheck"
	"github.com/dmitrijs2005/loadout/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/loadout/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/loadout/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	byID     map[string]*models.User
	findErr  error
	countErr error
	createFn func(*models.User) error
	grantErr error
	granted  map[string][]string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}, granted: map[string][]string{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createFn != nil {
		if err := f.createFn(u); err != nil {
			return nil, err
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email || u.UserName == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	for _, p := range f.granted[id] {
		cp.Permissions = append(cp.Permissions, models.Permission{Name: p})
	}
	return &cp, nil
}

func (f *fakeUsersRepo) Count(context.Context) (int64, error) {
	return int64(len(f.byID)), f.countErr
}

func (f *fakeUsersRepo) GrantPermission(_ context.Context, userID, permission string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	if _, ok := f.byID[userID]; !ok {
		return common.ErrorNotFound
	}
	f.granted[userID] = append(f.granted[userID], permission)
	return nil
}

type fakeRefreshRepo struct {
	rows       map[string]*models.RefreshToken
	consumeErr error
	createErr  error
	delErr     error

	// beforeConsume runs ahead of the delete, standing in for a concurrent
	// transaction that commits first.
	beforeConsume func(token string)
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *t
	f.rows[t.Token] = &cp
	return nil
}

func (f *fakeRefreshRepo) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	if f.beforeConsume != nil {
		f.beforeConsume(token)
	}
	rt, ok := f.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, token)
	return rt, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.rows, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if f.delErr != nil {
		return 0, f.delErr
	}
	var n int64
	for k, rt := range f.rows {
		if rt.UserID == userID {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }

// countingHasher records how often Hash ran.
type countingHasher struct {
	auth.PasswordHasher
	hashed int
}

func (h *countingHasher) Hash(p string) (string, error) {
	h.hashed++
	return h.PasswordHasher.Hash(p)
}

type env struct {
	svc    *AuthService
	users  *fakeUsersRepo
	tokens *fakeRefreshRepo
	hasher *countingHasher
	issuer *auth.TokenIssuer
	mock   sqlmock.Sqlmock
	bot    *botCalls
}

type botCalls struct {
	err   error
	calls int
	ip    string
}

func (b *botCalls) verifier() botcheck.Verifier {
	return botcheck.VerifierFunc(func(_ context.Context, token, ip string) error {
		b.calls++
		b.ip = ip
		if token == "" {
			return errors.New("missing token")
		}
		return b.err
	})
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	issuer, err := auth.NewTokenIssuer(context.Background(), auth.KeyConfig{Secret: []byte("k")},
		auth.Lifetimes{Session: time.Hour, Access: 15 * time.Minute, Refresh: 7 * 24 * time.Hour}, logging.Nop{})
	require.NoError(t, err)

	e := &env{
		users:  newFakeUsersRepo(),
		tokens: newFakeRefreshRepo(),
		hasher: &countingHasher{PasswordHasher: auth.NewBcryptHasher(4)},
		issuer: issuer,
		mock:   mock,
		bot:    &botCalls{},
	}
	e.svc = NewAuthService(db, &fakeRepoManager{u: e.users, r: e.tokens}, e.hasher, issuer, e.bot.verifier(), logging.Nop{})
	return e
}

func (e *env) signUp(t *testing.T, username string) string {
	t.Helper()
	tok, err := e.svc.SignUp(context.Background(), SignUpRequest{
		DisplayName: strings.ToUpper(username),
		UserName:    username,
		Email:       username + "@example.com",
		Password:    "correct horse",
		BotToken:    "ok",
	})
	require.NoError(t, err)
	return tok
}
