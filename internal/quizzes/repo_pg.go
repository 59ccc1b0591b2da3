package quizzes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements QuizzesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, quiz Quiz) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const insertQuiz = `
INSERT INTO quizzes (id, file_id, user_id, title, difficulty, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, insertQuiz, quiz.ID, quiz.FileID, quiz.UserID, quiz.Title, quiz.Difficulty, quiz.CreatedAt); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	if err := insertQuestions(ctx, tx, quiz.ID, quiz.Questions); err != nil {
		return err
	}
	return tx.Commit()
}

func insertQuestions(ctx context.Context, tx *sql.Tx, quizID string, questions []Question) error {
	const insertQuestion = `
INSERT INTO quiz_questions (id, quiz_id, position, text, choices, correct_answer)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, q := range questions {
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return fmt.Errorf("marshal choices: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuestion, q.ID, quizID, q.Position, q.Text, choices, q.CorrectAnswer); err != nil {
			return fmt.Errorf("insert question %d: %w", q.Position, err)
		}
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, quizID string) (Quiz, error) {
	const query = `
SELECT id, file_id, user_id, title, difficulty, created_at
FROM quizzes
WHERE id = $1
LIMIT 1`

	var quiz Quiz
	err := r.DB.QueryRowContext(ctx, query, quizID).Scan(
		&quiz.ID,
		&quiz.FileID,
		&quiz.UserID,
		&quiz.Title,
		&quiz.Difficulty,
		&quiz.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}

	questions, err := r.loadQuestions(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	quiz.Questions = questions
	return quiz, nil
}

func (r *PGRepo) loadQuestions(ctx context.Context, quizID string) ([]Question, error) {
	const query = `
SELECT id, quiz_id, position, text, choices, correct_answer
FROM quiz_questions
WHERE quiz_id = $1
ORDER BY position`

	rows, err := r.DB.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		var choices []byte
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Position, &q.Text, &choices, &q.CorrectAnswer); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(choices, &q.Choices); err != nil {
			return nil, fmt.Errorf("unmarshal choices: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
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
SELECT id, file_id, user_id, title, difficulty, created_at
FROM quizzes
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quiz
	for rows.Next() {
		var quiz Quiz
		if err := rows.Scan(&quiz.ID, &quiz.FileID, &quiz.UserID, &quiz.Title, &quiz.Difficulty, &quiz.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, quiz)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, quiz Quiz) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const updateQuiz = `
UPDATE quizzes
SET title = $1, difficulty = $2
WHERE id = $3`
	res, err := tx.ExecContext(ctx, updateQuiz, quiz.Title, quiz.Difficulty, quiz.ID)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	if quiz.Questions != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quiz.ID); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if err := insertQuestions(ctx, tx, quiz.ID, quiz.Questions); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PGRepo) Delete(ctx context.Context, quizID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID)
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
	_, err := r.DB.ExecContext(ctx, `DELETE FROM quizzes WHERE user_id = $1 AND file_id = $2`, userID, fileID)
	return err
}

var _ QuizzesRepo = (*PGRepo)(nil)
