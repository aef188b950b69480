// Package repomanager wires concrete repository implementations to database
// handles. Services hold a RepositoryManager plus a *sql.DB and bind
// repositories to either the DB or an open transaction per call.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/users"
)

// RepositoryManager produces repositories bound to a DBTX and runs schema
// migrations.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
