package flashcards

import "time"

// Card is one question/answer pair.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Batch is the set of cards produced by one generation call. Cards are
// stored together as a single row.
type Batch struct {
	ID        string
	FileID    string
	UserID    string
	Cards     []Card
	CreatedAt time.Time
}
