package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newDocumentsRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func multipartUpload(t *testing.T, fileName, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	svc := newTestService(newFakeStore())
	r := newDocumentsRouter(svc, "user-1")

	body, contentType := multipartUpload(t, "notes.txt", "text/plain", "محتوى الملف")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
		MimeType   string `json:"mimeType"`
		SizeBytes  int64  `json:"sizeBytes"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.DocumentID == "" {
		t.Fatal("expected documentId")
	}
	if payload.FileName != "notes.txt" || payload.MimeType != "text/plain" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.SizeBytes <= 0 {
		t.Fatalf("expected positive size, got %d", payload.SizeBytes)
	}
}

func TestUploadEndpointMissingFile(t *testing.T) {
	svc := newTestService(newFakeStore())
	r := newDocumentsRouter(svc, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUploadEndpointUnsupportedType(t *testing.T) {
	svc := newTestService(newFakeStore())
	r := newDocumentsRouter(svc, "user-1")

	body, contentType := multipartUpload(t, "archive.zip", "application/zip", "PKzz")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetEndpointStatusMapping(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	doc, err := svc.Upload(context.Background(), "owner", UploadInput{
		FileName: "a.txt",
		MimeType: "text/plain",
		Size:     4,
		Content:  strings.NewReader("text"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	ownerRouter := newDocumentsRouter(svc, "owner")
	intruderRouter := newDocumentsRouter(svc, "intruder")

	tests := []struct {
		name   string
		router *gin.Engine
		path   string
		want   int
	}{
		{name: "owner reads own", router: ownerRouter, path: "/api/v1/documents/" + doc.ID, want: http.StatusOK},
		{name: "foreign document", router: intruderRouter, path: "/api/v1/documents/" + doc.ID, want: http.StatusForbidden},
		{name: "missing document", router: ownerRouter, path: "/api/v1/documents/no-such-id", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp := httptest.NewRecorder()
			tt.router.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestRenameEndpoint(t *testing.T) {
	svc := newTestService(newFakeStore())
	r := newDocumentsRouter(svc, "user-1")

	doc, err := svc.Upload(context.Background(), "user-1", UploadInput{
		FileName: "old.txt",
		MimeType: "text/plain",
		Size:     4,
		Content:  strings.NewReader("text"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/documents/"+doc.ID, strings.NewReader(`{"fileName":"new.txt"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.FileName != "new.txt" {
		t.Fatalf("unexpected file name: %q", payload.FileName)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	r := newDocumentsRouter(svc, "user-1")

	doc, err := svc.Upload(context.Background(), "user-1", UploadInput{
		FileName: "a.txt",
		MimeType: "text/plain",
		Size:     4,
		Content:  strings.NewReader("text"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+doc.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID, nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestListEndpoint(t *testing.T) {
	svc := newTestService(newFakeStore())
	r := newDocumentsRouter(svc, "user-1")

	for _, name := range []string{"a.txt", "b.txt"} {
		if _, err := svc.Upload(context.Background(), "user-1", UploadInput{
			FileName: name,
			MimeType: "text/plain",
			Size:     4,
			Content:  strings.NewReader("text"),
		}); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload []struct {
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(payload))
	}
}
