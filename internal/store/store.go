package store

import (
	"context"
	"errors"
	"fmt"

	"referral-radar/internal/domain/connection"
)

// Store is the durable home of the imported contact set. The contact list it
// holds is the single source of truth; the lookup index and match cache in the
// matching engine are derived projections.
type Store interface {
	GetConnections(ctx context.Context) ([]connection.Connection, error)
	// SaveConnections replaces the full contact set atomically.
	SaveConnections(ctx context.Context, conns []connection.Connection) error
	HasConnections(ctx context.Context) (bool, error)

	GetMetadata(ctx context.Context) (*connection.ImportMetadata, error)
	SaveMetadata(ctx context.Context, meta connection.ImportMetadata) error

	CacheCSV(ctx context.Context, text string) error
	GetCachedCSV(ctx context.Context) (string, error)
	HasCachedCSV(ctx context.Context) (bool, error)

	// DeleteAll removes connections, metadata and the CSV cache.
	DeleteAll(ctx context.Context) error
}

// ErrNoCachedCSV is returned by GetCachedCSV when no raw CSV has been cached.
var ErrNoCachedCSV = errors.New("no cached CSV found")

// StorageError wraps a persistence failure with the operation that failed.
// Failures on the contact list or metadata are fatal to the caller; CSV cache
// failures are treated as non-fatal by the import pipeline.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("storage: %s failed", e.Op)
}

func (e *StorageError) Unwrap() error { return e.Cause }

func newStorageError(op string, cause error) error {
	return &StorageError{Op: op, Cause: cause}
}
