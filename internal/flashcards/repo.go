package flashcards

import "context"

// FlashcardsRepo persists flashcard batches.
type FlashcardsRepo interface {
	Create(ctx context.Context, batch Batch) error
	GetByID(ctx context.Context, batchID string) (Batch, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Batch, error)
	ListByFile(ctx context.Context, userID, fileID string) ([]Batch, error)
	Delete(ctx context.Context, batchID string) error
	DeleteByFile(ctx context.Context, userID, fileID string) error
}
