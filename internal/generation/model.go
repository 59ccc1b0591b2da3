package generation

// Question is one parsed quiz question. CorrectAnswer is always a member
// of Choices once validation has passed.
type Question struct {
	Text          string   `json:"text"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Flashcard is one parsed question/answer pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
