package csvimport

import (
	"context"
	"io"

	"referral-radar/internal/domain/connection"
	"referral-radar/internal/store"

	"go.uber.org/zap"
)

// Pipeline runs the CSV ingestion flow against the persisted store. Parsing
// itself is pure (ParseText); the pipeline adds upload validation and the
// raw-text cache that makes re-import without re-upload possible.
type Pipeline struct {
	store  store.Store
	logger *zap.Logger
}

func NewPipeline(s store.Store, logger *zap.Logger) *Pipeline {
	return &Pipeline{store: s, logger: logger}
}

// ParseUpload validates the uploaded file, caches its raw text and parses it.
// A cache write failure is logged and swallowed: re-import will need a
// re-upload, but the import itself proceeds.
func (p *Pipeline) ParseUpload(ctx context.Context, filename string, size int64, r io.Reader, userID string) ([]connection.Connection, error) {
	if err := ValidateFile(filename, size); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, &ValidationError{Reason: "failed to read file"}
	}
	if int64(len(raw)) > MaxFileSize {
		return nil, &ValidationError{Reason: "file size exceeds 10MB limit"}
	}
	text := string(raw)

	if err := p.store.CacheCSV(ctx, text); err != nil {
		p.logger.Warn("failed to cache raw CSV, re-import will need a re-upload", zap.Error(err))
	}

	return ParseText(text, userID)
}

// ParseCached re-runs the parser on the previously cached raw text.
func (p *Pipeline) ParseCached(ctx context.Context, userID string) ([]connection.Connection, error) {
	text, err := p.store.GetCachedCSV(ctx)
	if err != nil {
		return nil, err
	}
	return ParseText(text, userID)
}
