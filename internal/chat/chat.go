// Package chat exposes the study-assistant conversation endpoint: the
// user's message plus prior turns are relayed to the chat-completion
// provider under a fixed Arabic tutor persona.
package chat

import (
	"context"
	"errors"
	"strings"

	"lammah-backend/internal/llm"
)

const systemPrompt = "أنت لماح مساعد ذكي يساعد الطلاب في الفهم وتحسين مهاراتهم التعليمية. أجب بوضوح واحترافية."

const (
	maxTokens   = 1000
	temperature = 0.7

	// userSender is the sender label the client uses for the user's own
	// turns; every other label is treated as the assistant's.
	userSender = "أنت"
)

// ErrEmptyMessage rejects requests whose message is blank.
var ErrEmptyMessage = errors.New("empty chat message")

// HistoryEntry is one prior turn as the client recorded it.
type HistoryEntry struct {
	Sender string
	Text   string
}

// Service relays chat turns to the LLM client.
type Service struct {
	LLM llm.Client
}

// NewService constructs a Service.
func NewService(client llm.Client) *Service {
	return &Service{LLM: client}
}

// Respond sends the message with its history to the provider and returns
// the assistant's reply.
func (s *Service) Respond(ctx context.Context, message string, history []HistoryEntry) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	turns := make([]llm.Message, 0, len(history))
	for _, h := range history {
		text := strings.TrimSpace(h.Text)
		if text == "" {
			continue
		}
		role := "assistant"
		if h.Sender == userSender {
			role = "user"
		}
		turns = append(turns, llm.Message{Role: role, Content: text})
	}

	return s.LLM.Generate(ctx, llm.Request{
		SystemMessage: systemPrompt,
		History:       turns,
		UserMessage:   message,
		MaxTokens:     maxTokens,
		Temperature:   temperature,
	})
}
