package usecase

import (
	"context"
	"io"
	"time"

	"referral-radar/internal/csvimport"
	"referral-radar/internal/domain/connection"
	"referral-radar/internal/matching"
	"referral-radar/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Connections drives the import lifecycle: parse, replace the stored set,
// record metadata, and invalidate the matching engine's caches. The engine
// cache clear is not optional — skipping it serves stale matches.
type Connections struct {
	store    store.Store
	pipeline *csvimport.Pipeline
	engine   *matching.Engine
	logger   *zap.Logger
}

func NewConnections(s store.Store, p *csvimport.Pipeline, e *matching.Engine, logger *zap.Logger) *Connections {
	return &Connections{store: s, pipeline: p, engine: e, logger: logger}
}

type ImportResult struct {
	ConnectionCount int
	Metadata        connection.ImportMetadata
}

type Summary struct {
	HasConnections  bool
	ConnectionCount int
	Metadata        *connection.ImportMetadata
}

// ImportCSV ingests an uploaded export and replaces the stored contact set.
func (u *Connections) ImportCSV(ctx context.Context, filename string, size int64, r io.Reader, userID string) (ImportResult, error) {
	conns, err := u.pipeline.ParseUpload(ctx, filename, size, r, userID)
	if err != nil {
		return ImportResult{}, err
	}
	return u.finishImport(ctx, conns)
}

// ReimportCached re-runs the import from the cached raw CSV text.
func (u *Connections) ReimportCached(ctx context.Context, userID string) (ImportResult, error) {
	conns, err := u.pipeline.ParseCached(ctx, userID)
	if err != nil {
		return ImportResult{}, err
	}
	return u.finishImport(ctx, conns)
}

func (u *Connections) finishImport(ctx context.Context, conns []connection.Connection) (ImportResult, error) {
	if err := u.store.SaveConnections(ctx, conns); err != nil {
		return ImportResult{}, err
	}

	meta := connection.ImportMetadata{
		ImportID:        uuid.NewString(),
		ImportedAt:      time.Now().UTC(),
		ConnectionCount: len(conns),
		Source:          connection.SourceLinkedInCSV,
	}
	if err := u.store.SaveMetadata(ctx, meta); err != nil {
		u.logger.Warn("failed to save import metadata", zap.Error(err))
	}

	u.engine.ClearCache()

	u.logger.Info("imported connections",
		zap.Int("count", len(conns)),
		zap.String("import_id", meta.ImportID))

	return ImportResult{ConnectionCount: len(conns), Metadata: meta}, nil
}

// DeleteAll removes the contact set, metadata and CSV cache.
func (u *Connections) DeleteAll(ctx context.Context) error {
	if err := u.store.DeleteAll(ctx); err != nil {
		return err
	}
	u.engine.ClearCache()
	return nil
}

func (u *Connections) Summary(ctx context.Context) (Summary, error) {
	conns, err := u.store.GetConnections(ctx)
	if err != nil {
		return Summary{}, err
	}

	meta, err := u.store.GetMetadata(ctx)
	if err != nil {
		u.logger.Warn("failed to read import metadata", zap.Error(err))
		meta = nil
	}

	return Summary{
		HasConnections:  len(conns) > 0,
		ConnectionCount: len(conns),
		Metadata:        meta,
	}, nil
}

func (u *Connections) ByCompany(ctx context.Context) (map[string][]connection.Connection, error) {
	return u.engine.ConnectionsByCompany(ctx)
}
