package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/dbx"
	"github.com/dmitrijs2005/loadout/internal/logging"
	"github.com/dmitrijs2005/loadout/internal/server/auth"
	"github.com/dmitrijs2005/loadout/internal/server/botcheck"
	"github.com/dmitrijs2005/loadout/internal/server/models"
	"github.com/dmitrijs2005/loadout/internal/server/repositories/repomanager"
)

// TokenIssuer is the subset of *auth.TokenIssuer the service depends on.
type TokenIssuer interface {
	IssueSession(userID string, role models.Role) (string, error)
	IssueAccess(userID string) (string, time.Time, error)
	IssueRefresh(userID string) (string, time.Time, error)
	Verify(token string) (*auth.Payload, error)
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// AuthService provides authentication-related operations:
//   - SignUp / Login: verify the bot challenge and credentials, return a session token
//   - CreateAccessToken / CreateRefreshToken / IssueTokenPair: mint {sub} tokens
//   - Refresh / Logout / LogoutAll: rotate and revoke persisted refresh tokens
//   - ResolveIdentity / Authenticate: map a token to an active user
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	bot         botcheck.Verifier
	logger      logging.Logger
	now         func() time.Time
}

// NewAuthService wires the service to its collaborators.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	tokens TokenIssuer, bot botcheck.Verifier, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		bot:         bot,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUpRequest carries the signup form.
type SignUpRequest struct {
	DisplayName string
	UserName    string
	Email       string
	Password    string
	BotToken    string
	RemoteIP    string
}

// SignUp creates an account and returns a session token for it. The first
// account ever created becomes admin.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	if err := s.checkBot(ctx, "signup", req.BotToken, req.RemoteIP); err != nil {
		return "", err
	}

	if err := auth.CheckPasswordLength(req.Password); err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmailOrUsername(ctx, req.Email, req.UserName)
	switch {
	case err == nil:
		return "", ErrUserExists
	case !errors.Is(err, common.ErrorNotFound):
		return "", fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	first, err := s.isFirstUser(ctx)
	if err != nil {
		return "", err
	}
	role := models.RoleUser
	if first {
		role = models.RoleAdmin
	}

	user, err := repo.Create(ctx, &models.User{
		DisplayName:  req.DisplayName,
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.IssueSession(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID, "role", user.Role)
	return token, nil
}

// isFirstUser is read at signup time and never cached. Two concurrent first
// signups can both observe zero.
func (s *AuthService) isFirstUser(ctx context.Context) (bool, error) {
	n, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("error counting users: %w", err)
	}
	return n == 0, nil
}

// LoginRequest carries the login form.
type LoginRequest struct {
	UserNameOrEmail string
	Password        string
	BotToken        string
	RemoteIP        string
}

// Login checks credentials and returns a session token. An unknown account
// and a wrong password fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := s.checkBot(ctx, "login", req.BotToken, req.RemoteIP); err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).FindByEmailOrUsername(ctx, req.UserNameOrEmail, req.UserNameOrEmail)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	// Length is checked only once the account is known to exist.
	if err := auth.CheckPasswordLength(req.Password); err != nil {
		return "", err
	}

	ok, err := s.hasher.Compare(user.PasswordHash, req.Password)
	if err != nil {
		return "", fmt.Errorf("error comparing password: %w", err)
	}
	if !ok {
		s.logger.Warn(ctx, "login rejected", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSession(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return token, nil
}

func (s *AuthService) checkBot(ctx context.Context, op, token, remoteIP string) error {
	if err := s.bot.Verify(ctx, token, remoteIP); err != nil {
		s.logger.Warn(ctx, "bot check failed", "op", op, "remote_ip", remoteIP, "error", err)
		if errors.Is(err, common.ErrorUnauthorized) {
			return err
		}
		return fmt.Errorf("bot check unavailable: %w", err)
	}
	return nil
}

// CreateAccessToken signs a {sub} token for user.
func (s *AuthService) CreateAccessToken(user *models.User) (string, error) {
	token, _, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return "", fmt.Errorf("error issuing access token: %w", err)
	}
	return token, nil
}

// CreateRefreshToken signs a refresh token for user, persists it and returns
// the same string.
func (s *AuthService) CreateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	token, _, err := s.createRefreshToken(ctx, s.db, user.ID)
	return token, err
}

func (s *AuthService) createRefreshToken(ctx context.Context, db dbx.DBTX, userID string) (string, time.Time, error) {
	token, expiresAt, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error issuing refresh token: %w", err)
	}

	row := &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, row); err != nil {
		return "", time.Time{}, fmt.Errorf("error saving refresh token: %w", err)
	}
	return token, expiresAt, nil
}

// IssueTokenPair mints an access token and a persisted refresh token.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	return s.issueTokenPair(ctx, s.db, user.ID)
}

func (s *AuthService) issueTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}
	refresh, refreshExp, err := s.createRefreshToken(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:           access,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

// Refresh rotates refreshToken: the stored row is deleted and a new pair is
// issued in the same transaction. The owner must still be active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	payload, err := s.tokens.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, ErrRefreshExpired
		}
		return nil, ErrInvalidRefreshToken
	}
	if payload.Kind != auth.KindRefresh {
		return nil, ErrInvalidRefreshToken
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.resolve(ctx, tx, payload.UserID); err != nil {
			return err
		}

		// Consume deletes the row; a concurrent rotation of the same token
		// leaves nothing to delete and gets not found.
		row, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrInvalidRefreshToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if row.UserID != payload.UserID {
			return ErrInvalidRefreshToken
		}
		if row.Expired(s.now()) {
			return ErrRefreshExpired
		}

		pair, err = s.issueTokenPair(ctx, tx, row.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes refreshToken. Revoking an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// LogoutAll revokes every refresh token user holds.
func (s *AuthService) LogoutAll(ctx context.Context, user *models.User) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteByUser(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	s.logger.Info(ctx, "refresh tokens revoked", "user_id", user.ID, "count", n)
	return n, nil
}

// GrantPermission attaches a named permission to a user.
func (s *AuthService) GrantPermission(ctx context.Context, userID, permission string) error {
	if permission == "" {
		return ErrEmptyPermission
	}
	if err := s.repomanager.Users(s.db).GrantPermission(ctx, userID, permission); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return fmt.Errorf("error granting permission: %w", err)
	}
	s.logger.Info(ctx, "permission granted", "user_id", userID, "permission", permission)
	return nil
}
