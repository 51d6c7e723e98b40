package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/snippets/internal/dbx"
	"github.com/dmitrijs2005/snippets/internal/server/repositories/snippets"
	"github.com/dmitrijs2005/snippets/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a
// transaction, so services can run several repository calls in one tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Snippets(db dbx.DBTX) snippets.Repository
}
