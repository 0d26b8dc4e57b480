package recordings

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/dbx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
)

// PostgresRepository implements recording storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recording) error {
	query := `
		INSERT INTO recordings (id, user_id, file_name, transcription, duration_ms, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.UserID, rec.FileName, rec.Transcription, rec.Duration.Milliseconds(), rec.StorageKey).
		Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Recording, error) {
	query := `
		SELECT id, user_id, file_name, transcription, duration_ms, storage_key, created_at
		FROM recordings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Recording, 0)
	for rows.Next() {
		var (
			item       models.Recording
			durationMs int64
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.FileName, &item.Transcription,
			&durationMs, &item.StorageKey, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Duration = time.Duration(durationMs) * time.Millisecond
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
