package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	loggedIn bool

	signUpReq *api.SignUpRequest
	loginReq  *api.LoginRequest
	granted   [2]string
	lookedUp  string
	closed    bool
	deadline  bool

	err error
}

func (f *fakeAuth) SignUp(ctx context.Context, req *api.SignUpRequest) error {
	_, f.deadline = ctx.Deadline()
	f.signUpReq = req
	if f.err == nil {
		f.loggedIn = true
	}
	return f.err
}

func (f *fakeAuth) Login(_ context.Context, req *api.LoginRequest) error {
	f.loginReq = req
	if f.err == nil {
		f.loggedIn = true
	}
	return f.err
}

func (f *fakeAuth) pair() *api.TokenPairResponse {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &api.TokenPairResponse{
		AccessToken: "a", AccessTokenExpiresAt: now.Add(15 * time.Minute),
		RefreshToken: "r", RefreshTokenExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func (f *fakeAuth) IssueTokens(context.Context) (*api.TokenPairResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pair(), nil
}

func (f *fakeAuth) Refresh(context.Context) (*api.TokenPairResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pair(), nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.loggedIn = false
	return f.err
}

func (f *fakeAuth) LogoutAll(context.Context) (int64, error) {
	f.loggedIn = false
	return 3, f.err
}

func (f *fakeAuth) WhoAmI(context.Context) (*api.UserResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.UserResponse{ID: "u1", Username: "alice", Role: "admin", IsActive: true, Permissions: []string{"read_users"}}, nil
}

func (f *fakeAuth) GetUser(_ context.Context, id string) (*api.UserResponse, error) {
	f.lookedUp = id
	if f.err != nil {
		return nil, f.err
	}
	return &api.UserResponse{ID: id, Username: "bob", Role: "user"}, nil
}

func (f *fakeAuth) GrantPermission(_ context.Context, userID, permission string) error {
	f.granted = [2]string{userID, permission}
	return f.err
}

func (f *fakeAuth) LoggedIn() bool { return f.loggedIn }

func (f *fakeAuth) Close() error {
	f.closed = true
	return nil
}

// stubInputs replaces the prompt seams with canned answers.
func stubInputs(t *testing.T, texts []string, password string, pwErr error) {
	t.Helper()
	oldText, oldPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPw })

	i := 0
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		if i >= len(texts) {
			return "", io.EOF
		}
		s := texts[i]
		i++
		return s, nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		if pwErr != nil {
			return nil, pwErr
		}
		return []byte(password), nil
	}
}

func newTestApp(input string, svc *fakeAuth) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config:      &config.Config{RequestTimeout: time.Second, BotToken: "bot"},
		authService: svc,
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         out,
	}, out
}

func TestSignUp(t *testing.T) {
	stubInputs(t, []string{"Alice", "alice", "a@example.com"}, "correct horse", nil)
	svc := &fakeAuth{}
	a, out := newTestApp("", svc)

	require.NoError(t, a.SignUp(context.Background()))
	assert.Equal(t, &api.SignUpRequest{
		DisplayName: "Alice", Username: "alice", Email: "a@example.com",
		Password: "correct horse", BotToken: "bot",
	}, svc.signUpReq)
	assert.Equal(t, "alice", a.userName)
	assert.Contains(t, out.String(), "Success!")
}

func TestSignUpPasswordError(t *testing.T) {
	stubInputs(t, []string{"Alice", "alice", "a@example.com"}, "", errors.New("no tty"))
	svc := &fakeAuth{}
	a, _ := newTestApp("", svc)

	assert.Error(t, a.SignUp(context.Background()))
	assert.Nil(t, svc.signUpReq)
}

func TestLogin(t *testing.T) {
	stubInputs(t, []string{"alice"}, "pw", nil)
	svc := &fakeAuth{}
	a, _ := newTestApp("", svc)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "alice", svc.loginReq.UsernameOrEmail)
	assert.Equal(t, "pw", svc.loginReq.Password)
	assert.Equal(t, "bot", svc.loginReq.BotToken)
	assert.Equal(t, "(alice) ", a.getStatus())
}

func TestLoginFailure(t *testing.T) {
	stubInputs(t, []string{"alice"}, "pw", nil)
	svc := &fakeAuth{err: errors.New("invalid credentials")}
	a, _ := newTestApp("", svc)

	assert.EqualError(t, a.Login(context.Background()), "invalid credentials")
	assert.Empty(t, a.userName)
}

func TestRootDispatch(t *testing.T) {
	svc := &fakeAuth{loggedIn: true}
	a, out := newTestApp("help\nwhoami\nuser u2\ngrant u2 read_users\ntokens\nrefresh\nlogoutall\nbogus\nexit\n", svc)

	a.Root(context.Background())

	s := out.String()
	assert.Contains(t, s, "Available commands: whoami")
	assert.Contains(t, s, "username:    alice")
	assert.Contains(t, s, "permissions: read_users")
	assert.Equal(t, "u2", svc.lookedUp)
	assert.Equal(t, [2]string{"u2", "read_users"}, svc.granted)
	assert.Contains(t, s, "refresh token valid until")
	assert.Contains(t, s, "rotated;")
	assert.Contains(t, s, "revoked 3 refresh token(s)")
	assert.Contains(t, s, "Unknown command: bogus")
	assert.Contains(t, s, "Bye!")
}

func TestRootUsageAndErrors(t *testing.T) {
	svc := &fakeAuth{err: errors.New("forbidden")}
	a, out := newTestApp("help\nuser\ngrant u2\nwhoami\n", svc)

	a.Root(context.Background())

	s := out.String()
	assert.Contains(t, s, "Available commands: signup, login, exit")
	assert.Contains(t, s, "Usage: user <id>")
	assert.Contains(t, s, "Usage: grant <user-id> <permission>")
	assert.Contains(t, s, "Error: forbidden")
}

func TestDispatchAppliesRequestTimeout(t *testing.T) {
	stubInputs(t, []string{"Alice", "alice", "a@example.com"}, "pw", nil)
	svc := &fakeAuth{}
	a, _ := newTestApp("", svc)

	assert.False(t, a.dispatch(context.Background(), "signup", nil))
	assert.True(t, svc.deadline)
}

func TestRunClosesClient(t *testing.T) {
	svc := &fakeAuth{}
	a, _ := newTestApp("exit\n", svc)
	a.Run(context.Background())
	assert.True(t, svc.closed)
}
