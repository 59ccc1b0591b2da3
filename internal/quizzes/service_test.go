package quizzes

import (
	"context"
	"errors"
	"testing"
)

func seedQuiz(t *testing.T, svc *Service, userID string) string {
	t.Helper()
	quizID, err := svc.CreateGenerated(context.Background(), userID, "file-1", "اختبار متوسط", "medium", []GeneratedQuestion{
		{Text: "سؤال أول", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "أ"},
		{Text: "سؤال ثان", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "ب"},
	})
	if err != nil {
		t.Fatalf("CreateGenerated: %v", err)
	}
	return quizID
}

func TestCreateGeneratedAssignsPositions(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "user-1")

	quiz, err := svc.Get(context.Background(), "user-1", quizID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if q.Position != i+1 {
			t.Fatalf("question %d has position %d", i, q.Position)
		}
		if q.ID == "" {
			t.Fatal("expected generated question id")
		}
	}
}

func TestCreateGeneratedRejectsEmpty(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.CreateGenerated(context.Background(), "user-1", "file-1", "t", "easy", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetOwnership(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "owner")

	if _, err := svc.Get(context.Background(), "intruder", quizID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTitleKeepsQuestions(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "user-1")

	updated, err := svc.Update(context.Background(), "user-1", quizID, UpdateInput{Title: "عنوان جديد"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "عنوان جديد" {
		t.Fatalf("unexpected title: %q", updated.Title)
	}
	if len(updated.Questions) != 2 {
		t.Fatalf("question set must survive a title-only update, got %d", len(updated.Questions))
	}
}

func TestUpdateReplacesQuestions(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "user-1")

	updated, err := svc.Update(context.Background(), "user-1", quizID, UpdateInput{
		Questions: []GeneratedQuestion{
			{Text: "سؤال وحيد", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "ج"},
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Questions) != 1 {
		t.Fatalf("expected replaced question set, got %d", len(updated.Questions))
	}
	if updated.Questions[0].Text != "سؤال وحيد" || updated.Questions[0].Position != 1 {
		t.Fatalf("unexpected question: %+v", updated.Questions[0])
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "user-1")

	tests := []struct {
		name string
		in   UpdateInput
	}{
		{
			name: "bad difficulty",
			in:   UpdateInput{Difficulty: "extreme"},
		},
		{
			name: "empty question set",
			in:   UpdateInput{Questions: []GeneratedQuestion{}},
		},
		{
			name: "three choices",
			in: UpdateInput{Questions: []GeneratedQuestion{
				{Text: "سؤال", Choices: []string{"أ", "ب", "ج"}, CorrectAnswer: "أ"},
			}},
		},
		{
			name: "answer not in choices",
			in: UpdateInput{Questions: []GeneratedQuestion{
				{Text: "سؤال", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "هـ"},
			}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), "user-1", quizID, tt.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "owner")

	if err := svc.Delete(context.Background(), "intruder", quizID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "owner", quizID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner", quizID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteByFile(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	quizID := seedQuiz(t, svc, "user-1")

	if err := svc.DeleteByFile(context.Background(), "user-1", "file-1"); err != nil {
		t.Fatalf("DeleteByFile: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", quizID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected quiz gone after cascade, got %v", err)
	}

	quizzes, err := svc.List(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("expected no quizzes, got %d", len(quizzes))
	}
}
