package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lammah-backend/internal/documents"
	"lammah-backend/internal/extract"
	"lammah-backend/internal/llm"
	"lammah-backend/internal/shared/metrics"
	"lammah-backend/internal/shared/telemetry"
)

// DocumentGetter resolves a document while enforcing ownership.
type DocumentGetter interface {
	Get(ctx context.Context, userID, documentID string) (documents.Document, error)
}

// QuizStore persists a generated quiz with its questions.
type QuizStore interface {
	CreateGenerated(ctx context.Context, userID, fileID, title string, difficulty string, questions []Question) (string, error)
}

// FlashcardStore persists a generated flashcard batch.
type FlashcardStore interface {
	CreateBatch(ctx context.Context, userID, fileID string, cards []Flashcard) (string, error)
}

// SummaryStore persists a generated summary.
type SummaryStore interface {
	Create(ctx context.Context, userID, fileID, content string) (string, error)
}

// Service runs the document-to-study-material pipeline:
// ownership check, extraction, prompt, generation, parsing, persistence.
type Service struct {
	Docs       DocumentGetter
	Extractor  *extract.Extractor
	LLM        llm.Client
	Quizzes    QuizStore
	Flashcards FlashcardStore
	Summaries  SummaryStore
}

// Input is one generation request.
type Input struct {
	FileID     string
	Action     llm.Action
	Content    string
	FileURL    string
	Difficulty llm.Difficulty
	RequestID  string
}

// Result holds the action-specific output. Only the fields for the
// requested action are set.
type Result struct {
	QuizID         string
	Title          string
	TotalQuestions int
	Questions      []Question
	Summary        string
	SummaryID      string
	Flashcards     []Flashcard
	FlashcardsID   string
}

// Generate runs the full pipeline for one request.
func (s *Service) Generate(ctx context.Context, userID string, in Input) (Result, error) {
	metrics.IncGenerationStarted()
	start := time.Now()

	res, err := s.generate(ctx, userID, in)

	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("generation.failed", map[string]any{
			"request_id": in.RequestID,
			"fileId":     in.FileID,
			"action":     string(in.Action),
			"error":      err.Error(),
		})
		return Result{}, err
	}
	metrics.IncGenerationCompleted()
	telemetry.Info("generation.completed", map[string]any{
		"request_id":  in.RequestID,
		"fileId":      in.FileID,
		"action":      string(in.Action),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

func (s *Service) generate(ctx context.Context, userID string, in Input) (Result, error) {
	if strings.TrimSpace(in.FileID) == "" || in.Action == "" || (strings.TrimSpace(in.Content) == "" && strings.TrimSpace(in.FileURL) == "") {
		return Result{}, fmt.Errorf("%w: يجب توفير معرف الملف ونوع المعالجة ومحتوى الملف أو رابط الملف", ErrValidation)
	}

	doc, err := s.Docs.Get(ctx, userID, in.FileID)
	if err != nil {
		return Result{}, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		extracted, err := s.Extractor.Extract(ctx, extract.Source{
			URL:      in.FileURL,
			MimeType: doc.MimeType,
		})
		if err != nil {
			return Result{}, err
		}
		if extracted.UsedOCR {
			metrics.IncExtractionOCR()
		}
		content = extracted.Text
	}

	if in.Action == llm.ActionQuiz && !extract.IsValidArabicText(content) {
		return Result{}, fmt.Errorf("%w: المحتوى يجب أن يكون باللغة العربية", extract.ErrNotArabicContent)
	}

	prompt, err := llm.BuildPrompt(in.Action, content, in.Difficulty)
	if err != nil {
		return Result{}, fmt.Errorf("%w: نوع المعالجة غير صالح", ErrValidation)
	}

	raw, err := newRetryingLLM(s.LLM, in.RequestID).Generate(ctx, prompt)
	if err != nil {
		return Result{}, err
	}

	switch in.Action {
	case llm.ActionQuiz:
		questions, err := ParseQuiz(raw)
		if err != nil {
			return Result{}, err
		}
		title := in.Difficulty.ArabicTitle()
		quizID, err := s.Quizzes.CreateGenerated(ctx, userID, in.FileID, title, string(in.Difficulty), questions)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return Result{
			QuizID:         quizID,
			Title:          title,
			TotalQuestions: len(questions),
			Questions:      questions,
		}, nil

	case llm.ActionSummary:
		summary := strings.TrimSpace(raw)
		if summary == "" {
			return Result{}, fmt.Errorf("%w: الملخص المولد فارغ", ErrInvalidFormat)
		}
		summaryID, err := s.Summaries.Create(ctx, userID, in.FileID, summary)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return Result{Summary: summary, SummaryID: summaryID}, nil

	case llm.ActionFlashcards:
		cards, err := ParseFlashcards(raw)
		if err != nil {
			return Result{}, err
		}
		batchID, err := s.Flashcards.CreateBatch(ctx, userID, in.FileID, cards)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return Result{Flashcards: cards, FlashcardsID: batchID}, nil
	}

	return Result{}, fmt.Errorf("%w: نوع المعالجة غير صالح", ErrValidation)
}
