package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shadowinterview/internal/dbx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/migrations"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/questions"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Questions(db dbx.DBTX) questions.Repository {
	return questions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recordings(db dbx.DBTX) recordings.Repository {
	return recordings.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
