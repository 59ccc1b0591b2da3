package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"lammah-backend/internal/shared/storage/object"
	"lammah-backend/internal/shared/telemetry"
)

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 20 << 20

// allowedMIMETypes are the upload types the extraction pipeline can handle.
var allowedMIMETypes = map[string]bool{
	"text/plain":       true,
	"application/json": true,
	"application/pdf":  true,
	"image/png":        true,
	"image/jpeg":       true,
	"image/webp":       true,
}

// ArtifactPurger removes artifacts derived from a document. Each study
// artifact repo provides one so document deletion can cascade without this
// package importing the feature packages.
type ArtifactPurger interface {
	DeleteByFile(ctx context.Context, userID, fileID string) error
}

// Service implements document upload and lifecycle management.
type Service struct {
	Repo            DocumentsRepo
	Store           object.ObjectStore
	StorageProvider string
	Purgers         []ArtifactPurger
}

// UploadInput carries a single multipart file.
type UploadInput struct {
	FileName string
	MimeType string
	Size     int64
	Content  io.Reader
}

// Upload stores the file bytes and records the document row.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput) (Document, error) {
	if userID == "" {
		return Document{}, fmt.Errorf("%w: missing user", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.FileName)
	if name == "" {
		return Document{}, fmt.Errorf("%w: missing file name", ErrInvalidInput)
	}
	if in.Size <= 0 || in.Size > MaxUploadBytes {
		return Document{}, fmt.Errorf("%w: file size out of range", ErrInvalidInput)
	}
	mimeType := normalizeMIME(in.MimeType)
	if !allowedMIMETypes[mimeType] {
		return Document{}, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, mimeType)
	}

	key, size, _, err := s.Store.Save(ctx, userID, name, io.LimitReader(in.Content, MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        name,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      key,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Error("documents.orphan_object", map[string]any{"key": key, "error": delErr.Error()})
		}
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Get returns an owned document. A document owned by someone else yields
// ErrForbidden so callers can distinguish it from a missing one.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, fmt.Errorf("%w: missing document id", ErrInvalidInput)
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

// List returns the caller's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Rename updates the display name of an owned document.
func (s *Service) Rename(ctx context.Context, userID, documentID, fileName string) (Document, error) {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return Document{}, fmt.Errorf("%w: missing file name", ErrInvalidInput)
	}
	if len(name) > 255 {
		return Document{}, fmt.Errorf("%w: file name too long", ErrInvalidInput)
	}
	if _, err := s.Get(ctx, userID, documentID); err != nil {
		return Document{}, err
	}
	if err := s.Repo.Rename(ctx, userID, documentID, name); err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, documentID)
}

// Delete removes an owned document along with its derived study artifacts.
// The storage object is removed best-effort after the rows are gone.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return err
	}
	for _, purger := range s.Purgers {
		if err := purger.DeleteByFile(ctx, userID, documentID); err != nil {
			return fmt.Errorf("purge artifacts: %w", err)
		}
	}
	if err := s.Repo.SoftDelete(ctx, userID, documentID); err != nil {
		return err
	}
	if doc.StorageKey != "" {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Error("documents.object_delete_failed", map[string]any{"key": doc.StorageKey, "error": err.Error()})
		}
	}
	return nil
}

func normalizeMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "image/jpg" {
		return "image/jpeg"
	}
	return mimeType
}
