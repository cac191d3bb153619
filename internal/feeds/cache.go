// Package feeds implements the external-data layer behind the widget
// panels: a TTL cache keyed by provider-namespaced query fingerprints, a
// fixed-window request budget per upstream API, and one fetch engine
// shared by the news, weather, and photo providers.
package feeds

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"driftboard/internal/types"
)

// CacheStore layers the expiry policy over the raw cache repository:
// reads never return an expired payload, and a read that observes an
// expired row deletes it rather than leaving it for a sweeper.
//
// Storage failures degrade to a cache miss; the data layer must never
// become a single point of failure for widget rendering.
type CacheStore struct {
	repo   types.CacheRepository
	clock  types.Clock
	logger *slog.Logger
}

// NewCacheStore creates a CacheStore over the given repository.
func NewCacheStore(repo types.CacheRepository, clock types.Clock, logger *slog.Logger) *CacheStore {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheStore{repo: repo, clock: clock, logger: logger}
}

// Lookup returns the live entry for key, or nil when the key is absent
// or expired. Expired rows are deleted on read.
func (s *CacheStore) Lookup(ctx context.Context, key string) *types.CacheEntry {
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if entry == nil {
		return nil
	}

	if !entry.ValidAt(s.clock.Now()) {
		if err := s.repo.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete expired cache entry",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	return entry
}

// Store upserts payload under key with the given TTL. The write is
// best-effort: a storage failure is logged and absorbed, since the
// caller already holds the payload it is about to serve.
func (s *CacheStore) Store(ctx context.Context, key, source string, payload json.RawMessage, ttl time.Duration) {
	now := s.clock.Now()
	entry := &types.CacheEntry{
		Key:       key,
		Payload:   payload,
		Source:    source,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		s.logger.Warn("cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
