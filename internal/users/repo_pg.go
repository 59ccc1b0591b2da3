package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, name, picture, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, picture = EXCLUDED.picture`

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.Picture, createdAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, name, picture, created_at
FROM users
WHERE id = $1`

	var user User
	var name sql.NullString
	var picture sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Email, &name, &picture, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if name.Valid {
		user.Name = name.String
	}
	if picture.Valid {
		user.Picture = picture.String
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
