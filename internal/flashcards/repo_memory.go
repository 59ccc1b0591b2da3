package flashcards

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory FlashcardsRepo for tests and local runs.
type MemoryRepo struct {
	mu      sync.RWMutex
	batches map[string]Batch
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{batches: map[string]Batch{}}
}

func (r *MemoryRepo) Create(ctx context.Context, batch Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, batchID string) (Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	batch, ok := r.batches[batchID]
	if !ok {
		return Batch{}, ErrNotFound
	}
	return cloneBatch(batch), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Batch
	for _, batch := range r.batches {
		if batch.UserID == userID {
			out = append(out, cloneBatch(batch))
		}
	}
	sortBatches(out)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) ListByFile(ctx context.Context, userID, fileID string) ([]Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Batch
	for _, batch := range r.batches {
		if batch.UserID == userID && batch.FileID == fileID {
			out = append(out, cloneBatch(batch))
		}
	}
	sortBatches(out)
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, batchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[batchID]; !ok {
		return ErrNotFound
	}
	delete(r.batches, batchID)
	return nil
}

func (r *MemoryRepo) DeleteByFile(ctx context.Context, userID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, batch := range r.batches {
		if batch.UserID == userID && batch.FileID == fileID {
			delete(r.batches, id)
		}
	}
	return nil
}

func sortBatches(batches []Batch) {
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.After(batches[j].CreatedAt)
	})
}

func cloneBatch(batch Batch) Batch {
	batch.Cards = append([]Card(nil), batch.Cards...)
	return batch
}

var _ FlashcardsRepo = (*MemoryRepo)(nil)
