package grpc

import (
	"context"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/server/access"
	"github.com/dmitrijs2005/loadout/internal/server/models"
	"github.com/dmitrijs2005/loadout/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// handler implements api.AuthServiceServer on top of GRPCServer.
type handler struct {
	s *GRPCServer
}

func (h *handler) SignUp(ctx context.Context, req *api.SignUpRequest) (*api.TokenResponse, error) {
	token, err := h.s.auth.SignUp(ctx, services.SignUpRequest{
		DisplayName: req.DisplayName,
		UserName:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		BotToken:    botToken(ctx, req.BotToken),
		RemoteIP:    remoteIP(ctx),
	})
	h.s.recordAuth("signup", err)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.TokenResponse{Token: token}, nil
}

func (h *handler) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	token, err := h.s.auth.Login(ctx, services.LoginRequest{
		UserNameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
		BotToken:        botToken(ctx, req.BotToken),
		RemoteIP:        remoteIP(ctx),
	})
	h.s.recordAuth("login", err)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.TokenResponse{Token: token}, nil
}

func (h *handler) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.TokenPairResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}
	pair, err := h.s.auth.Refresh(ctx, req.RefreshToken)
	h.s.recordAuth("refresh", err)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return tokenPairResponse(pair), nil
}

func (h *handler) Logout(ctx context.Context, req *api.LogoutRequest) (*api.Empty, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}
	if err := h.s.auth.Logout(ctx, req.RefreshToken); err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (h *handler) IssueTokens(ctx context.Context, _ *api.Empty) (*api.TokenPairResponse, error) {
	user, err := principal(ctx)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	pair, err := h.s.auth.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return tokenPairResponse(pair), nil
}

func (h *handler) LogoutAll(ctx context.Context, _ *api.Empty) (*api.LogoutAllResponse, error) {
	user, err := principal(ctx)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	n, err := h.s.auth.LogoutAll(ctx, user)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.LogoutAllResponse{Revoked: n}, nil
}

func (h *handler) WhoAmI(ctx context.Context, _ *api.Empty) (*api.UserResponse, error) {
	user, err := principal(ctx)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return userResponse(user), nil
}

func (h *handler) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.UserResponse, error) {
	user, err := h.s.auth.GetUser(ctx, req.ID)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return userResponse(user), nil
}

func (h *handler) GrantPermission(ctx context.Context, req *api.GrantPermissionRequest) (*api.Empty, error) {
	if err := h.s.auth.GrantPermission(ctx, req.UserID, req.Permission); err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func principal(ctx context.Context) (*models.User, error) {
	user := access.Principal(ctx)
	if user == nil {
		return nil, common.ErrMissingPrincipal
	}
	return user, nil
}

func (s *GRPCServer) recordAuth(op string, err error) {
	result := "ok"
	if err != nil {
		code, _ := classify(err)
		result = code.String()
	}
	s.metrics.RecordAuth(op, result)
}

func tokenPairResponse(p *services.TokenPair) *api.TokenPairResponse {
	return &api.TokenPairResponse{
		AccessToken:           p.AccessToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshToken:          p.RefreshToken,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
	}
}

func userResponse(u *models.User) *api.UserResponse {
	return &api.UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.UserName,
		Email:       u.Email,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		Permissions: u.PermissionNames(),
	}
}
