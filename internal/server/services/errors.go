package services

import (
	"fmt"

	"github.com/dmitrijs2005/loadout/internal/common"
)

// Caller-facing errors. Each wraps the sentinel the transport maps on.
var (
	ErrUserExists          = fmt.Errorf("%w: email or username already exists", common.ErrorConflict)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
	ErrUserInactive        = fmt.Errorf("%w: user inactive", common.ErrorUnauthorized)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
	ErrRefreshExpired      = fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrRefreshTokenExpired)
	ErrWrongTokenKind      = fmt.Errorf("%w: refresh token cannot authenticate requests", common.ErrInvalidToken)
	ErrEmptyPermission     = fmt.Errorf("%w: permission name is required", common.ErrorBadRequest)
)
