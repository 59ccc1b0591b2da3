package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lammah-backend/internal/llm"
)

func newTestClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	client, err := NewClient("test-key", Options{
		BaseURL: srvURL,
		AppURL:  "http://localhost:3000",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", Options{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
	if _, err := NewClient("   ", Options{}); err == nil {
		t.Fatal("expected error for blank API key")
	}
}

func TestGenerateSendsChatRequest(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float32 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  النتيجة  "}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	out, err := client.Generate(context.Background(), llm.Request{
		SystemMessage: "system prompt",
		UserMessage:   "user prompt",
		MaxTokens:     2000,
		Temperature:   0.7,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "النتيجة" {
		t.Fatalf("unexpected output: %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReferer != "http://localhost:3000" {
		t.Fatalf("unexpected referer header: %q", gotReferer)
	}
	if gotTitle != "Lammah AI" {
		t.Fatalf("unexpected title header: %q", gotTitle)
	}
	if gotBody.Model != "mistralai/mixtral-8x7b-instruct" {
		t.Fatalf("unexpected model: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if gotBody.MaxTokens != 2000 {
		t.Fatalf("unexpected max_tokens: %d", gotBody.MaxTokens)
	}
	if gotBody.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", gotBody.Temperature)
	}
}

func TestGenerateIncludesHistoryTurns(t *testing.T) {
	var gotBody struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"رد"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), llm.Request{
		SystemMessage: "system prompt",
		History: []llm.Message{
			{Role: "user", Content: "سؤال سابق"},
			{Role: "assistant", Content: "جواب سابق"},
		},
		UserMessage: "سؤال جديد",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []struct{ role, content string }{
		{"system", "system prompt"},
		{"user", "سؤال سابق"},
		{"assistant", "جواب سابق"},
		{"user", "سؤال جديد"},
	}
	if len(gotBody.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %+v", len(want), gotBody.Messages)
	}
	for i, w := range want {
		if gotBody.Messages[i].Role != w.role || gotBody.Messages[i].Content != w.content {
			t.Fatalf("message %d = %+v, want %s/%q", i, gotBody.Messages[i], w.role, w.content)
		}
	}
}

func TestGenerateStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, llm.ErrAuthFailed) {
					t.Fatalf("expected ErrAuthFailed, got %v", err)
				}
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, llm.ErrRateLimited) {
					t.Fatalf("expected ErrRateLimited, got %v", err)
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var upstream *llm.UpstreamError
				if !errors.As(err, &upstream) {
					t.Fatalf("expected UpstreamError, got %v", err)
				}
				if upstream.Status != http.StatusInternalServerError {
					t.Fatalf("unexpected status: %d", upstream.Status)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			_, err := client.Generate(context.Background(), llm.Request{UserMessage: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.Generate(context.Background(), llm.Request{UserMessage: "hi"}); err == nil {
		t.Fatal("expected error for missing choices")
	}
}

func TestGenerateEmbeddedErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model unavailable","code":503}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), llm.Request{UserMessage: "hi"})
	var upstream *llm.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != 503 {
		t.Fatalf("unexpected status: %d", upstream.Status)
	}
}
