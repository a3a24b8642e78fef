package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for the account fields and registers. The password byte
// slice is wiped before returning.
func (a *App) SignUp(ctx context.Context) error {
	displayName, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.authService.SignUp(ctx, &api.SignUpRequest{
		DisplayName: displayName,
		Username:    userName,
		Email:       email,
		Password:    string(password),
		BotToken:    a.botToken(),
	})
	if err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.authService.Login(ctx, &api.LoginRequest{
		UsernameOrEmail: id,
		Password:        string(password),
		BotToken:        a.botToken(),
	})
	if err != nil {
		return err
	}

	a.userName = id
	fmt.Fprintln(a.out, "Logged in")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) ShowUser(ctx context.Context, id string) error {
	u, err := a.authService.GetUser(ctx, id)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) printUser(u *api.UserResponse) {
	fmt.Fprintf(a.out, "id:          %s\n", u.ID)
	fmt.Fprintf(a.out, "username:    %s\n", u.Username)
	fmt.Fprintf(a.out, "email:       %s\n", u.Email)
	fmt.Fprintf(a.out, "role:        %s\n", u.Role)
	fmt.Fprintf(a.out, "active:      %t\n", u.IsActive)
	fmt.Fprintf(a.out, "permissions: %s\n", strings.Join(u.Permissions, ", "))
}

func (a *App) Tokens(ctx context.Context) error {
	pair, err := a.authService.IssueTokens(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "access token valid until %s\n", pair.AccessTokenExpiresAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "refresh token valid until %s\n", pair.RefreshTokenExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	pair, err := a.authService.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "rotated; access token valid until %s\n", pair.AccessTokenExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) Grant(ctx context.Context, userID, permission string) error {
	if err := a.authService.GrantPermission(ctx, userID, permission); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "granted %s to %s\n", permission, userID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) LogoutAll(ctx context.Context) error {
	n, err := a.authService.LogoutAll(ctx)
	if err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintf(a.out, "revoked %d refresh token(s)\n", n)
	return nil
}
