package quizzes

import "context"

// QuizzesRepo persists quizzes with their questions.
type QuizzesRepo interface {
	// Create inserts the quiz and all its questions atomically.
	Create(ctx context.Context, quiz Quiz) error
	// GetByID loads a quiz with questions ordered by position.
	GetByID(ctx context.Context, quizID string) (Quiz, error)
	// ListByUser lists quiz headers newest-first, without questions.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error)
	// Update replaces title, difficulty and the question set atomically.
	Update(ctx context.Context, quiz Quiz) error
	// Delete removes a quiz and its questions.
	Delete(ctx context.Context, quizID string) error
	// DeleteByFile removes all quizzes derived from one document.
	DeleteByFile(ctx context.Context, userID, fileID string) error
}
