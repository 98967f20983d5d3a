package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/flava/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Recipes(db dbx.DBTX) recipes.Repository
}
