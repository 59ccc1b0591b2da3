package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The model is asked for JSON but smaller models drift into numbered-list
// text, so parsing is strict-JSON-first with a line-oriented fallback.

var numberedLine = regexp.MustCompile(`^\d+\.\s*`)

type jsonQuestion struct {
	Text           string   `json:"text"`
	Question       string   `json:"question"`
	Choices        []string `json:"choices"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correctAnswer"`
	CorrectAnswer2 string   `json:"correct_answer"`
}

type jsonQuizPayload struct {
	Questions []jsonQuestion `json:"questions"`
}

type jsonFlashcardsPayload struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// ParseQuiz turns raw model output into validated quiz questions.
func ParseQuiz(raw string) ([]Question, error) {
	questions, ok := parseQuizJSON(raw)
	if !ok {
		questions = parseQuizText(raw)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: تنسيق الأسئلة غير صالح", ErrInvalidFormat)
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func parseQuizJSON(raw string) ([]Question, bool) {
	var payload jsonQuizPayload
	if !unmarshalLenient(raw, &payload) || len(payload.Questions) == 0 {
		return nil, false
	}

	out := make([]Question, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		text := q.Text
		if text == "" {
			text = q.Question
		}
		choices := q.Choices
		if len(choices) == 0 {
			choices = q.Options
		}
		answer := q.CorrectAnswer
		if answer == "" {
			answer = q.CorrectAnswer2
		}
		out = append(out, Question{
			Text:          strings.TrimSpace(text),
			Choices:       trimAll(choices),
			CorrectAnswer: strings.TrimSpace(answer),
		})
	}
	return out, true
}

func parseQuizText(raw string) []Question {
	var questions []Question
	var current *Question

	for _, line := range splitLines(raw) {
		switch {
		case numberedLine.MatchString(line):
			if current != nil {
				questions = append(questions, *current)
			}
			current = &Question{Text: strings.TrimSpace(numberedLine.ReplaceAllString(line, ""))}
		case strings.HasPrefix(line, "-") && current != nil:
			current.Choices = append(current.Choices, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		case (strings.HasPrefix(line, "✓") || strings.HasPrefix(line, "✅")) && current != nil:
			answer := strings.TrimPrefix(line, "✅")
			answer = strings.TrimPrefix(answer, "✓")
			current.CorrectAnswer = strings.TrimSpace(answer)
		}
	}
	if current != nil {
		questions = append(questions, *current)
	}
	return questions
}

func validateQuestions(questions []Question) error {
	for i, q := range questions {
		if q.Text == "" || len(q.Choices) != 4 || q.CorrectAnswer == "" {
			return fmt.Errorf("%w: السؤال رقم %d غير مكتمل", ErrInvalidFormat, i+1)
		}
		if !contains(q.Choices, q.CorrectAnswer) {
			return fmt.Errorf("%w: الإجابة الصحيحة للسؤال رقم %d غير موجودة في الخيارات", ErrInvalidFormat, i+1)
		}
	}
	return nil
}

// ParseFlashcards turns raw model output into validated flashcards.
func ParseFlashcards(raw string) ([]Flashcard, error) {
	cards, ok := parseFlashcardsJSON(raw)
	if !ok {
		cards = parseFlashcardsText(raw)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: تنسيق البطاقات غير صالح", ErrInvalidFormat)
	}
	for i, card := range cards {
		if card.Question == "" || card.Answer == "" {
			return nil, fmt.Errorf("%w: البطاقة رقم %d غير مكتملة", ErrInvalidFormat, i+1)
		}
	}
	return cards, nil
}

func parseFlashcardsJSON(raw string) ([]Flashcard, bool) {
	var payload jsonFlashcardsPayload
	if !unmarshalLenient(raw, &payload) || len(payload.Flashcards) == 0 {
		return nil, false
	}
	out := make([]Flashcard, 0, len(payload.Flashcards))
	for _, card := range payload.Flashcards {
		out = append(out, Flashcard{
			Question: strings.TrimSpace(card.Question),
			Answer:   strings.TrimSpace(card.Answer),
		})
	}
	return out, true
}

var (
	questionMarkers = []string{"س:", "سؤال:"}
	answerMarkers   = []string{"ج:", "جواب:", "الإجابة:"}
)

func parseFlashcardsText(raw string) []Flashcard {
	var cards []Flashcard
	var question, answer strings.Builder
	inAnswer := false

	flush := func() {
		q := strings.TrimSpace(question.String())
		a := strings.TrimSpace(answer.String())
		if q != "" && a != "" {
			cards = append(cards, Flashcard{Question: q, Answer: a})
		}
		question.Reset()
		answer.Reset()
		inAnswer = false
	}

	for _, line := range splitLines(raw) {
		if numberedLine.MatchString(line) {
			flush()
			question.WriteString(strings.TrimSpace(numberedLine.ReplaceAllString(line, "")))
			continue
		}
		if rest, ok := stripMarker(line, questionMarkers); ok {
			flush()
			question.WriteString(rest)
			continue
		}
		if rest, ok := stripMarker(line, answerMarkers); ok {
			answer.Reset()
			answer.WriteString(rest)
			inAnswer = true
			continue
		}
		// continuation of whichever side is open
		if inAnswer {
			if answer.Len() > 0 {
				answer.WriteString(" ")
			}
			answer.WriteString(line)
		} else {
			if question.Len() > 0 {
				question.WriteString(" ")
			}
			question.WriteString(line)
		}
	}
	flush()
	return cards
}

func stripMarker(line string, markers []string) (string, bool) {
	for _, marker := range markers {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return "", false
}

func unmarshalLenient(raw string, dst any) bool {
	if json.Unmarshal([]byte(raw), dst) == nil {
		return true
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return false
	}
	return json.Unmarshal([]byte(raw[start:end+1]), dst) == nil
}

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
