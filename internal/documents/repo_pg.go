package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document row.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO uploaded_files (id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	storageProvider := doc.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageProvider,
		storageKey,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID regardless of owner; callers compare
// UserID to distinguish foreign documents from missing ones.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at
FROM uploaded_files
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`

	var doc Document
	var storageKey sql.NullString
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageProvider,
		&storageKey,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
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
SELECT id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at
FROM uploaded_files
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var storageKey sql.NullString
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.FileName,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.StorageProvider,
			&storageKey,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if storageKey.Valid {
			doc.StorageKey = storageKey.String
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Rename updates the display name of an owned document.
func (r *PGRepo) Rename(ctx context.Context, userID, documentID, fileName string) error {
	const query = `
UPDATE uploaded_files
SET file_name = $1
WHERE user_id = $2 AND id = $3 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, fileName, userID, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks an owned document as deleted.
func (r *PGRepo) SoftDelete(ctx context.Context, userID, documentID string) error {
	const query = `
UPDATE uploaded_files
SET deleted_at = now()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, userID, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
