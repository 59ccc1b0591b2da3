package extract

import "errors"

var (
	// ErrUnsupportedType means the MIME type has no extraction path.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFetchFailed means the source URL could not be fetched.
	ErrFetchFailed = errors.New("failed to fetch document")
	// ErrNoTextFound means every extraction path produced empty text.
	ErrNoTextFound = errors.New("no text found in document")
	// ErrOCRTimeout means OCR ran out of time before producing text.
	ErrOCRTimeout = errors.New("ocr timed out")
	// ErrNotArabicContent is returned by callers requiring Arabic content.
	ErrNotArabicContent = errors.New("content is not arabic text")
)
