package summaries

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory SummariesRepo for tests and local runs.
type MemoryRepo struct {
	mu        sync.RWMutex
	summaries map[string]Summary
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{summaries: map[string]Summary{}}
}

func (r *MemoryRepo) Create(ctx context.Context, summary Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[summary.ID] = summary
	return nil
}

func (r *MemoryRepo) ListByFile(ctx context.Context, userID, fileID string) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Summary
	for _, s := range r.summaries {
		if s.UserID == userID && s.FileID == fileID {
			out = append(out, s)
		}
	}
	sortSummaries(out)
	return out, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Summary
	for _, s := range r.summaries {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sortSummaries(out)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) DeleteByFile(ctx context.Context, userID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.summaries {
		if s.UserID == userID && s.FileID == fileID {
			delete(r.summaries, id)
		}
	}
	return nil
}

func sortSummaries(summaries []Summary) {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
}

var _ SummariesRepo = (*MemoryRepo)(nil)
