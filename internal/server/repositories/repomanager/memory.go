package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/server/repositories/memory"
	"github.com/dmitrijs2005/flava/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/flava/internal/server/repositories/users"
)

// MemoryRepositoryManager vends repositories over one shared memory.Store.
// The DBTX argument is ignored.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager(store *memory.Store) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: store}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.store.Users() }

func (m *MemoryRepositoryManager) Recipes(dbx.DBTX) recipes.Repository { return m.store.Recipes() }

// RunMigrations is a no-op; the memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }
