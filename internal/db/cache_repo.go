package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"driftboard/internal/types"
)

// CacheRepository provides data access for the data_cache table. It is
// storage only: the expiry policy (delete-on-read, never serving stale
// payloads) lives in the feeds cache store.
type CacheRepository struct {
	db DBTX
}

// NewCacheRepository creates a CacheRepository backed by the given
// database connection (pool or transaction).
func NewCacheRepository(db DBTX) *CacheRepository {
	return &CacheRepository{db: db}
}

var _ types.CacheRepository = (*CacheRepository)(nil)

// Get returns the cache row for key, or nil when no row exists. Absence
// is a normal result, not a failure.
func (r *CacheRepository) Get(ctx context.Context, key string) (*types.CacheEntry, error) {
	var entry types.CacheEntry
	err := r.db.QueryRow(ctx,
		`SELECT cache_key, data, source, cached_at, expires_at
		 FROM data_cache WHERE cache_key = $1`,
		key,
	).Scan(&entry.Key, &entry.Payload, &entry.Source, &entry.CachedAt, &entry.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query cache entry", err)
	}
	return &entry, nil
}

// Upsert creates or overwrites the row keyed by entry.Key. A second
// upsert for the same key replaces the prior payload and expiry.
func (r *CacheRepository) Upsert(ctx context.Context, entry *types.CacheEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO data_cache (cache_key, data, source, cached_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (cache_key) DO UPDATE SET
		   data = EXCLUDED.data,
		   source = EXCLUDED.source,
		   cached_at = EXCLUDED.cached_at,
		   expires_at = EXCLUDED.expires_at`,
		entry.Key, entry.Payload, entry.Source, entry.CachedAt, entry.ExpiresAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to upsert cache entry", err)
	}
	return nil
}

// Delete removes the row for key. Deleting a missing key is not an error.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM data_cache WHERE cache_key = $1`, key)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete cache entry", err)
	}
	return nil
}
