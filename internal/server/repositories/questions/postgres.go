package questions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/dbx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	query := `
		INSERT INTO questions (question, category)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, q.Text, q.Category).Scan(&q.ID, &q.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return q, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Question, error) {
	query := `
		SELECT id, question, category, created_at
		FROM questions
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Question, 0)
	for rows.Next() {
		var item models.Question
		if err := rows.Scan(&item.ID, &item.Text, &item.Category, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, q *models.Question) error {
	query := `
		UPDATE questions SET question = $2, category = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, q.ID, q.Text, q.Category)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
