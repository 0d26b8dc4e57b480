// Package repomanager vends repositories bound to a database handle and runs
// schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shadowinterview/internal/dbx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/questions"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Questions(db dbx.DBTX) questions.Repository
	Recordings(db dbx.DBTX) recordings.Repository
}
