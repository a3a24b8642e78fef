// Package users declares the server-side repository contract for accounts
// and their permission grants.
package users

import (
	"context"

	"github.com/dmitrijs2005/loadout/internal/server/models"
)

// Repository defines the storage operations the credential service and the
// identity resolver need.
type Repository interface {
	// Create inserts user. A duplicate username or email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmailOrUsername returns the first account whose email equals email
	// OR whose username equals username, in a single query. Not found yields
	// common.ErrorNotFound. Permissions are not loaded.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)

	// GetByID returns the account with its permissions loaded.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Count returns the number of stored accounts.
	Count(ctx context.Context) (int64, error)

	// GrantPermission attaches the named permission to the user, creating the
	// permission on first use. Granting twice is a no-op.
	GrantPermission(ctx context.Context, userID, permission string) error
}
