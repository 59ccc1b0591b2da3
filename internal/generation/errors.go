package generation

import "errors"

var (
	// ErrValidation covers missing or malformed request input. Wrapped
	// messages are Arabic and safe to show to users.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidFormat means the model output did not match any
	// recognized structure, or failed post-parse validation.
	ErrInvalidFormat = errors.New("invalid generated format")
	// ErrPersistence means a database write failed. The driver message
	// stays in the wrap for logs only.
	ErrPersistence = errors.New("persistence failed")
)
