package quizzes

import "time"

// Quiz is a generated quiz with its ordered questions.
type Quiz struct {
	ID         string
	FileID     string
	UserID     string
	Title      string
	Difficulty string
	CreatedAt  time.Time
	Questions  []Question
}

// Question is one quiz question. Position is 1-based.
type Question struct {
	ID            string
	QuizID        string
	Position      int
	Text          string
	Choices       []string
	CorrectAnswer string
}
