package quizzes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsQuizAndQuestions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	quiz := Quiz{
		ID:         "quiz-1",
		FileID:     "file-1",
		UserID:     "user-1",
		Title:      "اختبار متوسط",
		Difficulty: "medium",
		CreatedAt:  now,
		Questions: []Question{
			{ID: "q-1", QuizID: "quiz-1", Position: 1, Text: "سؤال", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "أ"},
			{ID: "q-2", QuizID: "quiz-1", Position: 2, Text: "سؤال آخر", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "ب"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO quizzes").
		WithArgs(quiz.ID, quiz.FileID, quiz.UserID, quiz.Title, quiz.Difficulty, quiz.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO quiz_questions").
		WithArgs("q-1", "quiz-1", 1, "سؤال", sqlmock.AnyArg(), "أ").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO quiz_questions").
		WithArgs("q-2", "quiz-1", 2, "سؤال آخر", sqlmock.AnyArg(), "ب").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), quiz); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRollsBackOnQuestionFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	quiz := Quiz{
		ID:        "quiz-1",
		CreatedAt: time.Now().UTC(),
		Questions: []Question{
			{ID: "q-1", QuizID: "quiz-1", Position: 1, Text: "سؤال", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "أ"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO quizzes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO quiz_questions").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	if err := repo.Create(context.Background(), quiz); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDLoadsOrderedQuestions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, file_id, user_id, title, difficulty, created_at").
		WithArgs("quiz-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_id", "user_id", "title", "difficulty", "created_at"}).
			AddRow("quiz-1", "file-1", "user-1", "اختبار سهل", "easy", now))
	mock.ExpectQuery("SELECT id, quiz_id, position, text, choices, correct_answer").
		WithArgs("quiz-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "position", "text", "choices", "correct_answer"}).
			AddRow("q-1", "quiz-1", 1, "سؤال", []byte(`["أ","ب","ج","د"]`), "أ").
			AddRow("q-2", "quiz-1", 2, "سؤال آخر", []byte(`["أ","ب","ج","د"]`), "ب"))

	quiz, err := repo.GetByID(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if quiz.Title != "اختبار سهل" || quiz.Difficulty != "easy" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	if quiz.Questions[0].Position != 1 || quiz.Questions[1].Position != 2 {
		t.Fatalf("questions out of order: %+v", quiz.Questions)
	}
	if len(quiz.Questions[0].Choices) != 4 {
		t.Fatalf("choices not decoded: %+v", quiz.Questions[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, file_id, user_id, title, difficulty, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_id", "user_id", "title", "difficulty", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateReplacesQuestionSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	quiz := Quiz{
		ID:         "quiz-1",
		Title:      "عنوان جديد",
		Difficulty: "hard",
		Questions: []Question{
			{ID: "q-9", QuizID: "quiz-1", Position: 1, Text: "سؤال", Choices: []string{"أ", "ب", "ج", "د"}, CorrectAnswer: "د"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE quizzes").
		WithArgs(quiz.Title, quiz.Difficulty, quiz.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM quiz_questions").
		WithArgs(quiz.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO quiz_questions").
		WithArgs("q-9", "quiz-1", 1, "سؤال", sqlmock.AnyArg(), "د").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Update(context.Background(), quiz); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM quizzes").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
