package llm

import "context"

// Message is one prior conversation turn.
type Message struct {
	Role    string
	Content string
}

// Request is one chat completion call: a system message, optional prior
// turns, the current user message, and sampling parameters.
type Request struct {
	SystemMessage string
	History       []Message
	UserMessage   string
	MaxTokens     int
	Temperature   float32
}

// Client abstracts chat-completion providers.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// PlaceholderClient is the stub wired when no API key is configured. Every
// call fails the same way an unauthenticated upstream call would.
type PlaceholderClient struct{}

func (PlaceholderClient) Generate(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrAuthFailed
}

var _ Client = PlaceholderClient{}
