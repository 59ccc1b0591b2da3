package quizzes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory QuizzesRepo for tests and local runs.
type MemoryRepo struct {
	mu      sync.RWMutex
	quizzes map[string]Quiz
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{quizzes: map[string]Quiz{}}
}

func (r *MemoryRepo) Create(ctx context.Context, quiz Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, quizID string) (Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quiz, ok := r.quizzes[quizID]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return cloneQuiz(quiz), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Quiz
	for _, quiz := range r.quizzes {
		if quiz.UserID == userID {
			header := cloneQuiz(quiz)
			header.Questions = nil
			out = append(out, header)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, quiz Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quizzes[quiz.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = quiz.Title
	existing.Difficulty = quiz.Difficulty
	if quiz.Questions != nil {
		existing.Questions = cloneQuestions(quiz.Questions)
	}
	r.quizzes[quiz.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, quizID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[quizID]; !ok {
		return ErrNotFound
	}
	delete(r.quizzes, quizID)
	return nil
}

func (r *MemoryRepo) DeleteByFile(ctx context.Context, userID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, quiz := range r.quizzes {
		if quiz.UserID == userID && quiz.FileID == fileID {
			delete(r.quizzes, id)
		}
	}
	return nil
}

func cloneQuiz(quiz Quiz) Quiz {
	quiz.Questions = cloneQuestions(quiz.Questions)
	return quiz
}

func cloneQuestions(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	out := make([]Question, len(questions))
	copy(out, questions)
	for i := range out {
		out[i].Choices = append([]string(nil), out[i].Choices...)
	}
	return out
}

var _ QuizzesRepo = (*MemoryRepo)(nil)
