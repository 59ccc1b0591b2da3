package llm

import (
	"strings"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in      string
		want    Action
		wantErr bool
	}{
		{in: "quiz", want: ActionQuiz},
		{in: "summary", want: ActionSummary},
		{in: "flashcards", want: ActionFlashcards},
		{in: "translate", wantErr: true},
		{in: "", wantErr: true},
		{in: "Quiz", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseAction(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseAction(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDifficultyDefaultsToMedium(t *testing.T) {
	got, err := ParseDifficulty("")
	if err != nil {
		t.Fatalf("ParseDifficulty: %v", err)
	}
	if got != DifficultyMedium {
		t.Fatalf("expected medium default, got %q", got)
	}

	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

func TestArabicTitle(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       string
	}{
		{DifficultyEasy, "اختبار سهل"},
		{DifficultyMedium, "اختبار متوسط"},
		{DifficultyHard, "اختبار صعب"},
		{Difficulty(""), "اختبار متوسط"},
	}
	for _, tt := range tests {
		if got := tt.difficulty.ArabicTitle(); got != tt.want {
			t.Fatalf("ArabicTitle(%q) = %q, want %q", tt.difficulty, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	content := "محتوى الدرس"

	req, err := BuildPrompt(ActionQuiz, content, DifficultyHard)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(req.SystemMessage, "صعب") {
		t.Fatal("quiz system message missing difficulty name")
	}
	if !strings.Contains(req.SystemMessage, `"questions"`) {
		t.Fatal("quiz system message missing JSON format instructions")
	}
	if !strings.Contains(req.UserMessage, content) {
		t.Fatal("quiz user message missing content")
	}
	if req.MaxTokens != 2000 {
		t.Fatalf("unexpected max tokens: %d", req.MaxTokens)
	}
	if req.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", req.Temperature)
	}

	req, err = BuildPrompt(ActionFlashcards, content, DifficultyMedium)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(req.SystemMessage, `"flashcards"`) {
		t.Fatal("flashcards system message missing JSON format instructions")
	}

	if _, err := BuildPrompt(Action("bogus"), content, DifficultyMedium); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
