package flashcards

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements FlashcardsRepo using Postgres. Cards live in a JSONB
// column.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, batch Batch) error {
	cards, err := json.Marshal(batch.Cards)
	if err != nil {
		return fmt.Errorf("marshal cards: %w", err)
	}
	const query = `
INSERT INTO flashcards (id, file_id, user_id, cards, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err = r.DB.ExecContext(ctx, query, batch.ID, batch.FileID, batch.UserID, cards, batch.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, batchID string) (Batch, error) {
	const query = `
SELECT id, file_id, user_id, cards, created_at
FROM flashcards
WHERE id = $1
LIMIT 1`

	var batch Batch
	var cards []byte
	err := r.DB.QueryRowContext(ctx, query, batchID).Scan(&batch.ID, &batch.FileID, &batch.UserID, &cards, &batch.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrNotFound
		}
		return Batch{}, err
	}
	if err := json.Unmarshal(cards, &batch.Cards); err != nil {
		return Batch{}, fmt.Errorf("unmarshal cards: %w", err)
	}
	return batch, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, file_id, user_id, cards, created_at
FROM flashcards
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

func (r *PGRepo) ListByFile(ctx context.Context, userID, fileID string) ([]Batch, error) {
	const query = `
SELECT id, file_id, user_id, cards, created_at
FROM flashcards
WHERE user_id = $1 AND file_id = $2
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

func scanBatches(rows *sql.Rows) ([]Batch, error) {
	var out []Batch
	for rows.Next() {
		var batch Batch
		var cards []byte
		if err := rows.Scan(&batch.ID, &batch.FileID, &batch.UserID, &cards, &batch.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cards, &batch.Cards); err != nil {
			return nil, fmt.Errorf("unmarshal cards: %w", err)
		}
		out = append(out, batch)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, batchID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, batchID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteByFile(ctx context.Context, userID, fileID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM flashcards WHERE user_id = $1 AND file_id = $2`, userID, fileID)
	return err
}

var _ FlashcardsRepo = (*PGRepo)(nil)
