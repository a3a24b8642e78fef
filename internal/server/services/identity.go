package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/dbx"
	"github.com/dmitrijs2005/loadout/internal/server/auth"
	"github.com/dmitrijs2005/loadout/internal/server/models"
)

// ResolveIdentity loads the acting user. A missing account and an inactive
// one fail with the same ErrUserInactive.
func (s *AuthService) ResolveIdentity(ctx context.Context, userID string) (*models.User, error) {
	return s.resolve(ctx, s.db, userID)
}

func (s *AuthService) resolve(ctx context.Context, db dbx.DBTX, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "principal rejected", "user_id", userID, "reason", "not found")
			return nil, ErrUserInactive
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.IsActive {
		s.logger.Warn(ctx, "principal rejected", "user_id", userID, "reason", "inactive")
		return nil, ErrUserInactive
	}
	return user, nil
}

// Authenticate verifies a bearer token of either claim shape and resolves
// its user. Refresh tokens are refused.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	payload, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	switch payload.Kind {
	case auth.KindSession, auth.KindAccess:
		return s.ResolveIdentity(ctx, payload.UserID)
	default:
		return nil, ErrWrongTokenKind
	}
}

// GetUser returns an account by id whether or not it is active.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}
