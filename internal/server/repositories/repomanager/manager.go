package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/loadout/internal/dbx"
	"github.com/dmitrijs2005/loadout/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/loadout/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// the same repository against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
