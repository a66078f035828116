package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"knowledgescout/internal/chunker"
	"knowledgescout/internal/extractor"
)

// ErrBadExtension marks uploads rejected before any processing because
// the filename is not .pdf or .docx.
var ErrBadExtension = errors.New("only .pdf and .docx allowed")

// Store is the persistence surface ingestion needs.
type Store interface {
	InsertDocument(ctx context.Context, name string) (int64, error)
	InsertChunks(ctx context.Context, docID int64, texts []string) error
}

// Service runs the extract-chunk-store pipeline for one uploaded file.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Ingest validates the upload, extracts its text, and persists one
// document row plus one chunk row per non-blank line. Validation happens
// before extraction, so a rejected upload never touches the store.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte, mimeType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && ext != ".docx" {
		return fmt.Errorf("%w, got %q", ErrBadExtension, ext)
	}

	text, err := extractor.Extract(data, mimeType)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", filename, err)
	}

	chunks := chunker.Split(text)

	docID, err := s.store.InsertDocument(ctx, filename)
	if err != nil {
		return err
	}
	if err := s.store.InsertChunks(ctx, docID, chunks); err != nil {
		return err
	}

	log.Debug().
		Str("file", filename).
		Int64("doc_id", docID).
		Int("chunks", len(chunks)).
		Msg("ingested document")
	return nil
}
