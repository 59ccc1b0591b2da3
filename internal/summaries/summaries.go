package summaries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("summary not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Summary is one generated prose summary of a document.
type Summary struct {
	ID        string
	FileID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// SummariesRepo persists summaries.
type SummariesRepo interface {
	Create(ctx context.Context, summary Summary) error
	ListByFile(ctx context.Context, userID, fileID string) ([]Summary, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error)
	DeleteByFile(ctx context.Context, userID, fileID string) error
}

// Service implements summary persistence and listing.
type Service struct {
	Repo SummariesRepo
}

// Create persists a generated summary and returns its id.
func (s *Service) Create(ctx context.Context, userID, fileID, content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("%w: empty summary", ErrInvalidInput)
	}
	summary := Summary{
		ID:        uuid.NewString(),
		FileID:    fileID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, summary); err != nil {
		return "", fmt.Errorf("create summary: %w", err)
	}
	return summary.ID, nil
}

// List returns the caller's summaries, optionally filtered by document.
func (s *Service) List(ctx context.Context, userID, fileID string, limit, offset int) ([]Summary, error) {
	if fileID != "" {
		return s.Repo.ListByFile(ctx, userID, fileID)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// DeleteByFile removes all summaries derived from one document. Used by
// the document delete cascade.
func (s *Service) DeleteByFile(ctx context.Context, userID, fileID string) error {
	return s.Repo.DeleteByFile(ctx, userID, fileID)
}
