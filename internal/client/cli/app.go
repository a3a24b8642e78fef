package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/client/authclient"
	"github.com/dmitrijs2005/loadout/internal/client/config"
)

// AuthService is what the REPL needs from authclient.Client.
type AuthService interface {
	SignUp(ctx context.Context, req *api.SignUpRequest) error
	Login(ctx context.Context, req *api.LoginRequest) error
	IssueTokens(ctx context.Context) (*api.TokenPairResponse, error)
	Refresh(ctx context.Context) (*api.TokenPairResponse, error)
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) (int64, error)
	WhoAmI(ctx context.Context) (*api.UserResponse, error)
	GetUser(ctx context.Context, id string) (*api.UserResponse, error)
	GrantPermission(ctx context.Context, userID, permission string) error
	LoggedIn() bool
	Close() error
}

type App struct {
	config      *config.Config
	authService AuthService
	userName    string
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	client, err := authclient.New(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return &App{config: c, authService: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close()
	a.Root(ctx)
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to loadout CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "auth %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) > 0 && a.dispatch(ctx, parts[0], parts[1:]) {
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one command and reports whether the REPL should exit.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) bool {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	var err error
	switch cmd {
	case "help":
		if a.authService.LoggedIn() {
			fmt.Fprintln(a.out, "Available commands: whoami, tokens, refresh, user <id>, grant <user-id> <permission>, logout, logoutall, exit")
		} else {
			fmt.Fprintln(a.out, "Available commands: signup, login, exit")
		}
	case "signup":
		err = a.SignUp(ctx)
	case "login":
		err = a.Login(ctx)
	case "whoami":
		err = a.WhoAmI(ctx)
	case "tokens":
		err = a.Tokens(ctx)
	case "refresh":
		err = a.Refresh(ctx)
	case "user":
		if len(args) != 1 {
			fmt.Fprintln(a.out, "Usage: user <id>")
			return false
		}
		err = a.ShowUser(ctx, args[0])
	case "grant":
		if len(args) != 2 {
			fmt.Fprintln(a.out, "Usage: grant <user-id> <permission>")
			return false
		}
		err = a.Grant(ctx, args[0], args[1])
	case "logout":
		err = a.Logout(ctx)
	case "logoutall":
		err = a.LogoutAll(ctx)
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}

	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return false
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) botToken() string {
	if a.config == nil {
		return ""
	}
	return a.config.BotToken
}
