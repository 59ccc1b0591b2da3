package summaries

import (
	"context"
	"database/sql"
)

// PGRepo implements SummariesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, summary Summary) error {
	const query = `
INSERT INTO summaries (id, file_id, user_id, content, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, summary.ID, summary.FileID, summary.UserID, summary.Content, summary.CreatedAt)
	return err
}

func (r *PGRepo) ListByFile(ctx context.Context, userID, fileID string) ([]Summary, error) {
	const query = `
SELECT id, file_id, user_id, content, created_at
FROM summaries
WHERE user_id = $1 AND file_id = $2
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
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
SELECT id, file_id, user_id, content, created_at
FROM summaries
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]Summary, error) {
	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.FileID, &s.UserID, &s.Content, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteByFile(ctx context.Context, userID, fileID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM summaries WHERE user_id = $1 AND file_id = $2`, userID, fileID)
	return err
}

var _ SummariesRepo = (*PGRepo)(nil)
