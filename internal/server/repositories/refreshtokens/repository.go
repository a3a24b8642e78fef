// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/loadout/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores token as given; the caller decides ExpiresAt.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Consume atomically deletes the row for token and returns it, so a token
	// can be redeemed once. Implementations return common.ErrorNotFound when
	// the token is absent or another caller already consumed it.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string. Deleting a
	// non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes every refresh token the user owns.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
