package llm

import "fmt"

// Action is the study artifact to generate.
type Action string

const (
	ActionQuiz       Action = "quiz"
	ActionSummary    Action = "summary"
	ActionFlashcards Action = "flashcards"
)

// ParseAction validates a raw action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionQuiz, ActionSummary, ActionFlashcards:
		return Action(s), nil
	}
	return "", fmt.Errorf("invalid action %q", s)
}

// Difficulty selects the quiz difficulty tier. Empty input defaults to
// medium.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return DifficultyMedium, nil
	}
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

// ArabicTitle is the user-facing quiz title for the tier.
func (d Difficulty) ArabicTitle() string {
	switch d {
	case DifficultyEasy:
		return "اختبار سهل"
	case DifficultyHard:
		return "اختبار صعب"
	default:
		return "اختبار متوسط"
	}
}

func (d Difficulty) arabicName() string {
	switch d {
	case DifficultyEasy:
		return "سهل"
	case DifficultyHard:
		return "صعب"
	default:
		return "متوسط"
	}
}

const (
	generationMaxTokens   = 2000
	generationTemperature = 0.7
)

const quizSystemTemplate = `أنت مساعد ذكي متخصص في إنشاء اختبارات تعليمية باللغة العربية. قم بإنشاء اختبار بناءً على المحتوى المقدم.
اتبع هذه القواعد:
1. يجب أن تكون الأسئلة مستمدة حصراً من المحتوى المقدم
2. بالنسبة لمستوى %s:
   - سهل: 10 أسئلة فهم أساسية
   - متوسط: 10 أسئلة متوسطة التعقيد
   - صعب: 10 أسئلة تتطلب فهماً عميقاً
3. كل سؤال يجب أن يحتوي على 4 خيارات
4. قم بتنسيق الإجابة كـ JSON بهذا الشكل:
{
  "questions": [
    {
      "text": "نص السؤال",
      "choices": ["الخيار الأول", "الخيار الثاني", "الخيار الثالث", "الخيار الرابع"],
      "correctAnswer": "الإجابة الصحيحة"
    }
  ]
}`

const summarySystem = `You are a helpful AI that generates concise summaries in Arabic. Create a summary of the given content.`

const flashcardsSystem = `You are a helpful AI that generates educational flashcards in Arabic. Create 5-10 flashcards with question/answer pairs based on the given content.
Format the response as JSON: {"flashcards": [{"question": "...", "answer": "..."}]}`

// BuildPrompt constructs the chat request for one generation action. The
// JSON output format requested here is what the response parser expects
// as its primary path.
func BuildPrompt(action Action, content string, difficulty Difficulty) (Request, error) {
	switch action {
	case ActionQuiz:
		return Request{
			SystemMessage: fmt.Sprintf(quizSystemTemplate, difficulty.arabicName()),
			UserMessage:   fmt.Sprintf("قم بإنشاء اختبار بمستوى %s باللغة العربية من هذا المحتوى:\n%s", difficulty.arabicName(), content),
			MaxTokens:     generationMaxTokens,
			Temperature:   generationTemperature,
		}, nil
	case ActionSummary:
		return Request{
			SystemMessage: summarySystem,
			UserMessage:   fmt.Sprintf("Generate a summary in Arabic for this content:\n%s", content),
			MaxTokens:     generationMaxTokens,
			Temperature:   generationTemperature,
		}, nil
	case ActionFlashcards:
		return Request{
			SystemMessage: flashcardsSystem,
			UserMessage:   fmt.Sprintf("Generate flashcards in Arabic about this content:\n%s", content),
			MaxTokens:     generationMaxTokens,
			Temperature:   generationTemperature,
		}, nil
	}
	return Request{}, fmt.Errorf("invalid action %q", action)
}
