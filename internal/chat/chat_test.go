package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lammah-backend/internal/llm"
)

type fakeLLM struct {
	output string
	err    error
	calls  int
	lastIn llm.Request
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	f.lastIn = req
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func newChatRouter(t *testing.T, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(NewService(client)).RegisterRoutes(api)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestChatResponse(t *testing.T) {
	client := &fakeLLM{output: "الماء ضروري للحياة."}
	router := newChatRouter(t, client)

	resp := postChat(t, router, `{"message":"لماذا الماء مهم؟"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.Response != "الماء ضروري للحياة." {
		t.Fatalf("unexpected response %q", payload.Response)
	}

	if client.calls != 1 {
		t.Fatalf("expected 1 LLM call, got %d", client.calls)
	}
	if client.lastIn.SystemMessage != systemPrompt {
		t.Fatalf("system message = %q", client.lastIn.SystemMessage)
	}
	if client.lastIn.UserMessage != "لماذا الماء مهم؟" {
		t.Fatalf("user message = %q", client.lastIn.UserMessage)
	}
	if client.lastIn.MaxTokens != 1000 || client.lastIn.Temperature != 0.7 {
		t.Fatalf("sampling params = %d/%v", client.lastIn.MaxTokens, client.lastIn.Temperature)
	}
}

func TestChatHistoryRoleMapping(t *testing.T) {
	client := &fakeLLM{output: "رد"}
	router := newChatRouter(t, client)

	body := `{"message":"وماذا عن الثلج؟","chatHistory":[` +
		`{"sender":"أنت","text":"ما هو الماء؟"},` +
		`{"sender":"لماح","text":"الماء سائل شفاف."},` +
		`{"sender":"أنت","text":"  "}]}`
	resp := postChat(t, router, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	history := client.lastIn.History
	if len(history) != 2 {
		t.Fatalf("expected 2 history turns (blank dropped), got %d", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "ما هو الماء؟" {
		t.Fatalf("first turn = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "الماء سائل شفاف." {
		t.Fatalf("second turn = %+v", history[1])
	}
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing message", body: `{}`},
		{name: "blank message", body: `{"message":"   "}`},
		{name: "malformed json", body: `{`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{output: "رد"}
			router := newChatRouter(t, client)

			resp := postChat(t, router, tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if client.calls != 0 {
				t.Fatalf("expected no LLM calls, got %d", client.calls)
			}
		})
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "auth failure", err: llm.ErrAuthFailed, wantStatus: http.StatusBadGateway, wantCode: "upstream_error"},
		{name: "rate limited", err: llm.ErrRateLimited, wantStatus: http.StatusBadGateway, wantCode: "upstream_error"},
		{name: "upstream 500", err: &llm.UpstreamError{Status: 500}, wantStatus: http.StatusBadGateway, wantCode: "upstream_error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			router := newChatRouter(t, &fakeLLM{err: tt.err})

			resp := postChat(t, router, `{"message":"مرحبا"}`)
			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if payload.Error.Code != tt.wantCode {
				t.Fatalf("error code = %q, want %q", payload.Error.Code, tt.wantCode)
			}
		})
	}
}
