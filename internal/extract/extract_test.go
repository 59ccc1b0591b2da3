package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lammah-backend/internal/ocr"
)

type fakeOCR struct {
	imageText string
	pdfText   string
	err       error
	imageCall int
	pdfCalls  int
}

func (f *fakeOCR) ImageText(ctx context.Context, img []byte, mimeType string) (string, error) {
	f.imageCall++
	return f.imageText, f.err
}

func (f *fakeOCR) PDFText(ctx context.Context, doc []byte, progress ocr.ProgressFunc) (string, error) {
	f.pdfCalls++
	return f.pdfText, f.err
}

func (f *fakeOCR) Close() error { return nil }

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor(ocr.Disabled{})

	res, err := e.Extract(context.Background(), Source{
		Data:     []byte("هذا  نص\nعربي"),
		MimeType: "text/plain; charset=utf-8",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Text != "هذا نص عربي" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if res.UsedOCR {
		t.Fatal("plain text must not use OCR")
	}
}

func TestExtractImageUsesOCR(t *testing.T) {
	fake := &fakeOCR{imageText: "نص من صورة"}
	e := NewExtractor(fake)

	res, err := e.Extract(context.Background(), Source{
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
		MimeType: "image/png",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !res.UsedOCR {
		t.Fatal("expected UsedOCR")
	}
	if res.Text != "نص من صورة" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if fake.imageCall != 1 {
		t.Fatalf("expected 1 OCR call, got %d", fake.imageCall)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewExtractor(ocr.Disabled{})

	_, err := e.Extract(context.Background(), Source{
		Data:     []byte("PK"),
		MimeType: "application/zip",
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractEmptyTextIsNoTextFound(t *testing.T) {
	e := NewExtractor(ocr.Disabled{})

	_, err := e.Extract(context.Background(), Source{
		Data:     []byte("   \n\t "),
		MimeType: "text/plain",
	})
	if !errors.Is(err, ErrNoTextFound) {
		t.Fatalf("expected ErrNoTextFound, got %v", err)
	}
}

func TestExtractNoContentOrURL(t *testing.T) {
	e := NewExtractor(ocr.Disabled{})

	_, err := e.Extract(context.Background(), Source{})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestExtractFetchesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("نص من الرابط"))
	}))
	defer srv.Close()

	e := NewExtractor(ocr.Disabled{})

	res, err := e.Extract(context.Background(), Source{URL: srv.URL})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Text != "نص من الرابط" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestExtractFetchFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewExtractor(ocr.Disabled{})

	_, err := e.Extract(context.Background(), Source{URL: srv.URL, MimeType: "text/plain"})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestExtractOCRTimeoutClassified(t *testing.T) {
	fake := &fakeOCR{err: context.DeadlineExceeded}
	e := NewExtractor(fake)

	_, err := e.Extract(context.Background(), Source{
		Data:     []byte{0xff, 0xd8},
		MimeType: "image/jpeg",
	})
	if !errors.Is(err, ErrOCRTimeout) {
		t.Fatalf("expected ErrOCRTimeout, got %v", err)
	}
}

func TestExtractOCRUnavailableClassified(t *testing.T) {
	e := NewExtractor(ocr.Disabled{})

	_, err := e.Extract(context.Background(), Source{
		Data:     []byte{0xff, 0xd8},
		MimeType: "image/jpg",
	})
	if !errors.Is(err, ErrNoTextFound) {
		t.Fatalf("expected ErrNoTextFound, got %v", err)
	}
}
