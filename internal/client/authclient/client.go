// Package authclient is the gRPC client for the auth service. It keeps the
// caller's tokens, attaches the bearer token to every call and transparently
// rotates an expired access token once using the refresh token.
package authclient

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

type Client struct {
	conn   *grpc.ClientConn
	client api.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// New dials endpoint with plaintext transport. Extra dial options are
// appended, which tests use to plug in a bufconn dialer.
func New(endpoint string, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewAuthServiceClient(conn)
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *Client) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = access, refresh
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == api.MethodRefresh {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := c.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() || refresh == "" {
		return err
	}

	pair, rerr := c.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refresh})
	if rerr != nil {
		return err
	}
	c.setTokens(pair.AccessToken, pair.RefreshToken)

	return invoker(withAccessToken(ctx, pair.AccessToken), method, req, reply, cc, opts...)
}

// SignUp registers an account and keeps the returned session token.
func (c *Client) SignUp(ctx context.Context, req *api.SignUpRequest) error {
	resp, err := c.client.SignUp(ctx, req)
	if err != nil {
		return c.mapError(err)
	}
	c.setTokens(resp.Token, "")
	return nil
}

// Login authenticates and keeps the returned session token.
func (c *Client) Login(ctx context.Context, req *api.LoginRequest) error {
	resp, err := c.client.Login(ctx, req)
	if err != nil {
		return c.mapError(err)
	}
	c.setTokens(resp.Token, "")
	return nil
}

// IssueTokens exchanges the current token for an access/refresh pair and
// switches to it.
func (c *Client) IssueTokens(ctx context.Context) (*api.TokenPairResponse, error) {
	if access, _ := c.tokens(); access == "" {
		return nil, ErrNotLoggedIn
	}
	pair, err := c.client.IssueTokens(ctx, &api.Empty{})
	if err != nil {
		return nil, c.mapError(err)
	}
	c.setTokens(pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

// Refresh rotates the refresh token explicitly.
func (c *Client) Refresh(ctx context.Context) (*api.TokenPairResponse, error) {
	_, refresh := c.tokens()
	if refresh == "" {
		return nil, ErrNotLoggedIn
	}
	pair, err := c.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		return nil, c.mapError(err)
	}
	c.setTokens(pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

// Logout revokes the refresh token, if any, and forgets both tokens.
func (c *Client) Logout(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh != "" {
		if _, err := c.client.Logout(ctx, &api.LogoutRequest{RefreshToken: refresh}); err != nil {
			return c.mapError(err)
		}
	}
	c.setTokens("", "")
	return nil
}

// LogoutAll revokes every refresh token of the current user.
func (c *Client) LogoutAll(ctx context.Context) (int64, error) {
	resp, err := c.client.LogoutAll(ctx, &api.Empty{})
	if err != nil {
		return 0, c.mapError(err)
	}
	c.setTokens("", "")
	return resp.Revoked, nil
}

func (c *Client) WhoAmI(ctx context.Context) (*api.UserResponse, error) {
	resp, err := c.client.WhoAmI(ctx, &api.Empty{})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*api.UserResponse, error) {
	resp, err := c.client.GetUser(ctx, &api.GetUserRequest{ID: id})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *Client) GrantPermission(ctx context.Context, userID, permission string) error {
	if _, err := c.client.GrantPermission(ctx, &api.GrantPermissionRequest{UserID: userID, Permission: permission}); err != nil {
		return c.mapError(err)
	}
	return nil
}

// LoggedIn reports whether a token is held.
func (c *Client) LoggedIn() bool {
	access, _ := c.tokens()
	return access != ""
}

func (c *Client) mapError(err error) error {
	if status.Code(err) == codes.Unavailable {
		return ErrUnavailable
	}
	return err
}
