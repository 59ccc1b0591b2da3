package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"lammah-backend/internal/ocr"
	"lammah-backend/internal/shared/telemetry"
)

const (
	mimeText = "text/plain"
	mimeJSON = "application/json"
	mimePDF  = "application/pdf"

	maxFetchBytes = 20 << 20
)

// Source is a document to extract text from: raw bytes, or a URL to
// fetch them from. MimeType selects the extraction path.
type Source struct {
	URL      string
	Data     []byte
	MimeType string
}

// Result is the extracted text plus whether OCR was needed to get it.
type Result struct {
	Text    string
	UsedOCR bool
}

// Extractor turns stored documents into plain text. PDFs try the text
// layer first and fall back to OCR; images go straight to OCR.
type Extractor struct {
	OCR  ocr.Client
	HTTP *http.Client
}

// NewExtractor builds an Extractor with a bounded fetch client.
func NewExtractor(ocrClient ocr.Client) *Extractor {
	return &Extractor{
		OCR:  ocrClient,
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
}

// Extract resolves the source bytes and produces normalized text.
func (e *Extractor) Extract(ctx context.Context, src Source) (Result, error) {
	data := src.Data
	mimeType := src.MimeType
	if len(data) == 0 {
		if strings.TrimSpace(src.URL) == "" {
			return Result{}, fmt.Errorf("%w: no content or url", ErrFetchFailed)
		}
		fetched, contentType, err := e.fetch(ctx, src.URL)
		if err != nil {
			return Result{}, err
		}
		data = fetched
		if mimeType == "" {
			mimeType = contentType
		}
	}

	res, err := e.extractBytes(ctx, data, mimeType)
	if err != nil {
		return Result{}, err
	}

	res.Text = NormalizeText(res.Text)
	if res.Text == "" {
		return Result{}, ErrNoTextFound
	}
	return res, nil
}

func (e *Extractor) extractBytes(ctx context.Context, data []byte, mimeType string) (Result, error) {
	switch normalizeMimeType(mimeType) {
	case mimeText, mimeJSON:
		return Result{Text: string(data)}, nil
	case mimePDF:
		return e.extractPDF(ctx, data)
	default:
		if strings.HasPrefix(normalizeMimeType(mimeType), "image/") {
			return e.runOCRImage(ctx, data, mimeType)
		}
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	text, err := pdfTextLayer(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return Result{Text: text}, nil
	}
	if err != nil {
		telemetry.Info("extract.pdf_text_layer_failed", map[string]any{"error": err.Error()})
	}

	ocrText, err := e.OCR.PDFText(ctx, data, func(page, total int) {
		telemetry.Info("extract.ocr_progress", map[string]any{"page": page, "total": total})
	})
	if err != nil {
		return Result{}, classifyOCRError(err)
	}
	return Result{Text: ocrText, UsedOCR: true}, nil
}

func (e *Extractor) runOCRImage(ctx context.Context, data []byte, mimeType string) (Result, error) {
	text, err := e.OCR.ImageText(ctx, data, mimeType)
	if err != nil {
		return Result{}, classifyOCRError(err)
	}
	return Result{Text: text, UsedOCR: true}, nil
}

func classifyOCRError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrOCRTimeout, err)
	}
	if errors.Is(err, ocr.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrNoTextFound, err)
	}
	return fmt.Errorf("ocr: %w", err)
}

func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := e.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func pdfTextLayer(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeMimeType(mimeType string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "image/jpg" {
		return "image/jpeg"
	}
	return clean
}
