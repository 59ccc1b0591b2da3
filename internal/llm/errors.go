package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed means the provider rejected the API key.
	ErrAuthFailed = errors.New("llm authentication failed")
	// ErrRateLimited means the provider returned 429.
	ErrRateLimited = errors.New("llm rate limited")
)

// UpstreamError is any other non-2xx provider response. Body is truncated
// for logs.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm upstream error: status %d: %s", e.Status, e.Body)
}
