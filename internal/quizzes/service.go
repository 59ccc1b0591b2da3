package quizzes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service implements quiz CRUD with ownership checks.
type Service struct {
	Repo QuizzesRepo
}

// GeneratedQuestion is the validated shape the generation pipeline hands
// over for persistence.
type GeneratedQuestion struct {
	Text          string
	Choices       []string
	CorrectAnswer string
}

// CreateGenerated persists a quiz produced by the generation pipeline.
func (s *Service) CreateGenerated(ctx context.Context, userID, fileID, title, difficulty string, questions []GeneratedQuestion) (string, error) {
	if len(questions) == 0 {
		return "", fmt.Errorf("%w: quiz has no questions", ErrInvalidInput)
	}
	quizID := uuid.NewString()
	quiz := Quiz{
		ID:         quizID,
		FileID:     fileID,
		UserID:     userID,
		Title:      title,
		Difficulty: difficulty,
		CreatedAt:  time.Now().UTC(),
	}
	for i, q := range questions {
		quiz.Questions = append(quiz.Questions, Question{
			ID:            uuid.NewString(),
			QuizID:        quizID,
			Position:      i + 1,
			Text:          q.Text,
			Choices:       q.Choices,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	if err := s.Repo.Create(ctx, quiz); err != nil {
		return "", fmt.Errorf("create quiz: %w", err)
	}
	return quizID, nil
}

// Get returns an owned quiz with its questions.
func (s *Service) Get(ctx context.Context, userID, quizID string) (Quiz, error) {
	if quizID == "" {
		return Quiz{}, fmt.Errorf("%w: missing quiz id", ErrInvalidInput)
	}
	quiz, err := s.Repo.GetByID(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if quiz.UserID != userID {
		return Quiz{}, ErrForbidden
	}
	return quiz, nil
}

// List returns the caller's quizzes, newest first, without questions.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// UpdateInput carries the editable quiz fields. A nil Questions slice
// leaves the question set unchanged.
type UpdateInput struct {
	Title      string
	Difficulty string
	Questions  []GeneratedQuestion
}

// Update edits an owned quiz.
func (s *Service) Update(ctx context.Context, userID, quizID string, in UpdateInput) (Quiz, error) {
	existing, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return Quiz{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = existing.Title
	}
	difficulty := strings.TrimSpace(in.Difficulty)
	if difficulty == "" {
		difficulty = existing.Difficulty
	}
	if difficulty != "easy" && difficulty != "medium" && difficulty != "hard" {
		return Quiz{}, fmt.Errorf("%w: invalid difficulty %q", ErrInvalidInput, difficulty)
	}

	updated := Quiz{ID: quizID, Title: title, Difficulty: difficulty}
	if in.Questions != nil {
		if len(in.Questions) == 0 {
			return Quiz{}, fmt.Errorf("%w: quiz has no questions", ErrInvalidInput)
		}
		for i, q := range in.Questions {
			if strings.TrimSpace(q.Text) == "" || len(q.Choices) != 4 || !containsChoice(q.Choices, q.CorrectAnswer) {
				return Quiz{}, fmt.Errorf("%w: السؤال رقم %d غير مكتمل", ErrInvalidInput, i+1)
			}
			updated.Questions = append(updated.Questions, Question{
				ID:            uuid.NewString(),
				QuizID:        quizID,
				Position:      i + 1,
				Text:          q.Text,
				Choices:       q.Choices,
				CorrectAnswer: q.CorrectAnswer,
			})
		}
	}

	if err := s.Repo.Update(ctx, updated); err != nil {
		return Quiz{}, err
	}
	return s.Repo.GetByID(ctx, quizID)
}

// Delete removes an owned quiz.
func (s *Service) Delete(ctx context.Context, userID, quizID string) error {
	if _, err := s.Get(ctx, userID, quizID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, quizID)
}

// DeleteByFile removes all quizzes derived from one document. Used by the
// document delete cascade.
func (s *Service) DeleteByFile(ctx context.Context, userID, fileID string) error {
	return s.Repo.DeleteByFile(ctx, userID, fileID)
}

func containsChoice(choices []string, want string) bool {
	for _, c := range choices {
		if c == want {
			return true
		}
	}
	return false
}
