package questions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ  = `(?s)^\s*INSERT\s+INTO\s+questions\s*\(question,\s*category\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at\s*$`
	listQ    = `(?s)^\s*SELECT\s+id,\s*question,\s*category,\s*created_at\s+FROM\s+questions\s+ORDER\s+BY\s+id\s*$`
	replaceQ = `(?s)^\s*UPDATE\s+questions\s+SET\s+question\s*=\s*\$2,\s*category\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs("What is a goroutine?", "Go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))

	q, err := repo.Create(context.Background(), &models.Question{Text: "What is a goroutine?", Category: "Go"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.ID)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))
	_, err = repo.Create(context.Background(), &models.Question{Text: "x", Category: "y"})
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"id", "question", "category", "created_at"}).
		AddRow(int64(1), "Tell me about yourself", "Behavioral", now).
		AddRow(int64(2), "Explain channels", "Go", now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tell me about yourself", got[0].Text)
	assert.Equal(t, "Go", got[1].Category)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"id", "question", "category", "created_at"}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"id", "question", "category", "created_at"}).
		AddRow(int64(1), "q", "c", time.Now()).
		RowError(0, errors.New("broken row")))

	_, err := repo.List(context.Background())
	assert.Error(t, err)
}

func TestReplace(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()

	mock.ExpectExec(replaceQ).WithArgs(int64(1), "new", "cat").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Replace(ctx, &models.Question{ID: 1, Text: "new", Category: "cat"}))

	mock.ExpectExec(replaceQ).WithArgs(int64(99), "new", "cat").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Replace(ctx, &models.Question{ID: 99, Text: "new", Category: "cat"}), common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
