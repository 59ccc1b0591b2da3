package flashcards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service implements flashcard batch persistence and CRUD with ownership
// checks.
type Service struct {
	Repo FlashcardsRepo
}

// CreateBatch persists the cards produced by one generation call.
func (s *Service) CreateBatch(ctx context.Context, userID, fileID string, cards []Card) (string, error) {
	if len(cards) == 0 {
		return "", fmt.Errorf("%w: batch has no cards", ErrInvalidInput)
	}
	batch := Batch{
		ID:        uuid.NewString(),
		FileID:    fileID,
		UserID:    userID,
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, batch); err != nil {
		return "", fmt.Errorf("create flashcards: %w", err)
	}
	return batch.ID, nil
}

// List returns the caller's batches, optionally filtered by document.
func (s *Service) List(ctx context.Context, userID, fileID string, limit, offset int) ([]Batch, error) {
	if fileID != "" {
		return s.Repo.ListByFile(ctx, userID, fileID)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes an owned batch.
func (s *Service) Delete(ctx context.Context, userID, batchID string) error {
	if batchID == "" {
		return fmt.Errorf("%w: missing batch id", ErrInvalidInput)
	}
	batch, err := s.Repo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.UserID != userID {
		return ErrForbidden
	}
	return s.Repo.Delete(ctx, batchID)
}

// DeleteByFile removes all batches derived from one document. Used by the
// document delete cascade.
func (s *Service) DeleteByFile(ctx context.Context, userID, fileID string) error {
	return s.Repo.DeleteByFile(ctx, userID, fileID)
}
