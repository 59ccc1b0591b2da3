package flashcards

import "errors"

var (
	ErrNotFound     = errors.New("flashcards not found")
	ErrForbidden    = errors.New("flashcards belong to another user")
	ErrInvalidInput = errors.New("invalid input")
)
