package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable reports that no OCR provider is configured.
var ErrUnavailable = errors.New("ocr provider not configured")

// ProgressFunc is called after each page is recognized. Advisory only;
// implementations may skip it.
type ProgressFunc func(page, total int)

// Client recognizes text in scanned documents.
type Client interface {
	// ImageText runs OCR on a single raster image.
	ImageText(ctx context.Context, img []byte, mimeType string) (string, error)
	// PDFText runs OCR on the pages of a PDF.
	PDFText(ctx context.Context, doc []byte, progress ProgressFunc) (string, error)
	Close() error
}

// Disabled is the Client used when OCR is turned off. Every call fails
// with ErrUnavailable.
type Disabled struct{}

func (Disabled) ImageText(ctx context.Context, img []byte, mimeType string) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) PDFText(ctx context.Context, doc []byte, progress ProgressFunc) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) Close() error { return nil }

var _ Client = Disabled{}
