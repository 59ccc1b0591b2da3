package quizzes

import "errors"

var (
	ErrNotFound     = errors.New("quiz not found")
	ErrForbidden    = errors.New("quiz belongs to another user")
	ErrInvalidInput = errors.New("invalid input")
)
