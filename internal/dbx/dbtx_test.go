package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS questions (id INTEGER PRIMARY KEY, question TEXT)`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO questions(question) VALUES ('Tell me about yourself')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO questions(question) VALUES ('rolled back')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)
	require.Equal(t, 0, countRows(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		require.NotNil(t, recover(), "panic must propagate")
		require.Equal(t, 0, countRows(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO questions(question) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
}

func TestInTx_ReturnsValue(t *testing.T) {
	db := setupDB(t)

	id, err := InTx(context.Background(), db, func(ctx context.Context, tx DBTX) (int64, error) {
		res, err := tx.ExecContext(ctx, `INSERT INTO questions(question) VALUES ('Why us?')`)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, 1, countRows(t, db))
}

func TestInTx_ZeroOnError(t *testing.T) {
	db := setupDB(t)

	v, err := InTx(context.Background(), db, func(ctx context.Context, tx DBTX) (string, error) {
		return "discarded", errors.New("nope")
	})
	require.Error(t, err)
	require.Empty(t, v)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	require.True(t, IsUniqueViolation(dup))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, IsUniqueViolation(errors.New("boom")))
	require.False(t, IsUniqueViolation(nil))
}
