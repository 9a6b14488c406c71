package store

import (
	"context"
	"time"

	"referral-radar/internal/cache"
	"referral-radar/internal/database"
	"referral-radar/internal/domain/connection"

	"go.uber.org/zap"
)

const csvCacheKey = "connections:csv_cache"

const schema = `
CREATE TABLE IF NOT EXISTS connections (
	position                BIGSERIAL PRIMARY KEY,
	id                      TEXT NOT NULL,
	user_id                 TEXT NOT NULL,
	connection_name         TEXT NOT NULL,
	company_name_raw        TEXT NOT NULL,
	company_name_normalized TEXT NOT NULL,
	job_title_raw           TEXT NOT NULL,
	job_title_normalized    TEXT NOT NULL,
	connection_date         TEXT NOT NULL DEFAULT '',
	linkedin_url            TEXT NOT NULL DEFAULT '',
	source                  TEXT NOT NULL,
	last_updated_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_connections_company_norm ON connections (company_name_normalized);
CREATE TABLE IF NOT EXISTS import_metadata (
	singleton        BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	import_id        TEXT NOT NULL,
	imported_at      TIMESTAMPTZ NOT NULL,
	connection_count INT NOT NULL,
	source           TEXT NOT NULL
);`

// Postgres keeps the contact list and import metadata in Postgres and parks
// the raw-CSV cache blob in redis. The blob is a convenience copy, so a cache
// outage degrades re-import, never the primary data.
type Postgres struct {
	db     database.DB
	cache  *cache.Redis
	logger *zap.Logger
}

func NewPostgres(db database.DB, c *cache.Redis, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, cache: c, logger: logger}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return newStorageError("ensure schema", err)
	}
	return nil
}

func (s *Postgres) GetConnections(ctx context.Context) ([]connection.Connection, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, connection_name, company_name_raw, company_name_normalized,
		        job_title_raw, job_title_normalized, connection_date, linkedin_url,
		        source, last_updated_at
		 FROM connections
		 ORDER BY position`)
	if err != nil {
		return nil, newStorageError("get connections", err)
	}
	defer rows.Close()

	var out []connection.Connection
	for rows.Next() {
		var c connection.Connection
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ConnectionName, &c.CompanyNameRaw, &c.CompanyNameNormalized,
			&c.JobTitleRaw, &c.JobTitleNormalized, &c.ConnectionDate, &c.LinkedInURL,
			&c.Source, &c.LastUpdatedAt,
		); err != nil {
			return nil, newStorageError("get connections", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("get connections", err)
	}
	return out, nil
}

func (s *Postgres) SaveConnections(ctx context.Context, conns []connection.Connection) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return newStorageError("save connections", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM connections`); err != nil {
		return newStorageError("save connections", err)
	}

	for _, c := range conns {
		if _, err := tx.Exec(ctx,
			`INSERT INTO connections (
				id, user_id, connection_name, company_name_raw, company_name_normalized,
				job_title_raw, job_title_normalized, connection_date, linkedin_url,
				source, last_updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			c.ID, c.UserID, c.ConnectionName, c.CompanyNameRaw, c.CompanyNameNormalized,
			c.JobTitleRaw, c.JobTitleNormalized, c.ConnectionDate, c.LinkedInURL,
			c.Source, c.LastUpdatedAt.UTC(),
		); err != nil {
			return newStorageError("save connections", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return newStorageError("save connections", err)
	}
	return nil
}

func (s *Postgres) HasConnections(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM connections`).Scan(&n); err != nil {
		return false, newStorageError("count connections", err)
	}
	return n > 0, nil
}

func (s *Postgres) GetMetadata(ctx context.Context) (*connection.ImportMetadata, error) {
	rows, err := s.db.Query(ctx,
		`SELECT import_id, imported_at, connection_count, source FROM import_metadata`)
	if err != nil {
		return nil, newStorageError("get metadata", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var m connection.ImportMetadata
	var importedAt time.Time
	if err := rows.Scan(&m.ImportID, &importedAt, &m.ConnectionCount, &m.Source); err != nil {
		return nil, newStorageError("get metadata", err)
	}
	m.ImportedAt = importedAt
	return &m, nil
}

func (s *Postgres) SaveMetadata(ctx context.Context, meta connection.ImportMetadata) error {
	if _, err := s.db.Exec(ctx,
		`INSERT INTO import_metadata (singleton, import_id, imported_at, connection_count, source)
		 VALUES (TRUE, $1, $2, $3, $4)
		 ON CONFLICT (singleton) DO UPDATE SET
			import_id = EXCLUDED.import_id,
			imported_at = EXCLUDED.imported_at,
			connection_count = EXCLUDED.connection_count,
			source = EXCLUDED.source`,
		meta.ImportID, meta.ImportedAt.UTC(), meta.ConnectionCount, meta.Source,
	); err != nil {
		return newStorageError("save metadata", err)
	}
	return nil
}

func (s *Postgres) CacheCSV(ctx context.Context, text string) error {
	if err := s.cache.SetString(ctx, csvCacheKey, text, 0); err != nil {
		return newStorageError("cache csv", err)
	}
	return nil
}

func (s *Postgres) GetCachedCSV(ctx context.Context) (string, error) {
	text, ok, err := s.cache.GetString(ctx, csvCacheKey)
	if err != nil {
		return "", newStorageError("get cached csv", err)
	}
	if !ok {
		return "", ErrNoCachedCSV
	}
	return text, nil
}

func (s *Postgres) HasCachedCSV(ctx context.Context) (bool, error) {
	ok, err := s.cache.Exists(ctx, csvCacheKey)
	if err != nil {
		return false, newStorageError("check cached csv", err)
	}
	return ok, nil
}

func (s *Postgres) DeleteAll(ctx context.Context) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return newStorageError("delete all", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM connections`); err != nil {
		return newStorageError("delete all", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM import_metadata`); err != nil {
		return newStorageError("delete all", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return newStorageError("delete all", err)
	}

	if err := s.cache.Delete(ctx, csvCacheKey); err != nil && s.logger != nil {
		s.logger.Warn("failed to drop cached CSV", zap.Error(err))
	}
	return nil
}

var _ Store = (*Postgres)(nil)
