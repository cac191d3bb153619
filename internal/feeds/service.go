package feeds

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"driftboard/internal/types"
)

// Result is the tagged outcome of one fetch. Unrecoverable conditions
// are returned here, never raised: callers check Success, and for the
// photos provider must check Success independently of Data presence
// (a failed photos fetch still carries the curated fallback list).
type Result struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
	Cached   bool            `json:"cached,omitempty"`
	CachedAt *time.Time      `json:"cachedAt,omitempty"`
	Fallback bool            `json:"fallback,omitempty"`

	// Err carries the typed error for HTTP status mapping. It is not
	// part of the wire envelope.
	Err error `json:"-"`
}

// ProviderConfig describes one upstream data provider to the shared
// fetch engine.
type ProviderConfig struct {
	// Provider is the rate-budget row key for this upstream.
	Provider types.Provider

	// KeyPrefix namespaces cache keys, e.g. "news:".
	KeyPrefix string

	// TTL bounds how long a cached payload is served.
	TTL time.Duration

	// DefaultQuery is used when the caller passes an empty query.
	DefaultQuery string

	// MaxRequests/Window define the fixed-window budget consumed before
	// each upstream call.
	MaxRequests int
	Window      time.Duration

	// HasCredential reports whether an upstream credential is
	// configured. Without one the provider serves Fallback instead of
	// calling upstream; that is an expected path, not an error.
	HasCredential func() bool

	// CallUpstream performs the live fetch.
	CallUpstream func(ctx context.Context, query string) (json.RawMessage, error)

	// Fallback produces the static substitute payload for query.
	Fallback func(query string) json.RawMessage

	// FallbackOnError attaches the fallback payload as Data on upstream
	// failure while still reporting Success=false. Only the photos
	// provider sets this, trading strict correctness for a non-empty
	// UI.
	FallbackOnError bool
}

// Service is the fetch engine for one provider. Three instances (news,
// weather, photos) share this implementation; only their ProviderConfig
// differs.
//
// Within one fetch, cache-read always precedes the rate-limit check,
// which always precedes the upstream call, which always precedes the
// cache write. That order is what bounds upstream call volume and must
// not be reordered.
type Service struct {
	cfg     ProviderConfig
	cache   *CacheStore
	limiter *RateLimiter
	logger  *slog.Logger

	// flight collapses concurrent misses for the same cache key into a
	// single upstream call; all waiters share the result.
	flight singleflight.Group
}

// NewService creates a fetch engine for the given provider config.
func NewService(cfg ProviderConfig, cache *CacheStore, limiter *RateLimiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, cache: cache, limiter: limiter, logger: logger}
}

// normalizeQuery lowercases the query and collapses whitespace runs to
// single hyphens, producing the cache key fingerprint.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), "-")
}

// Fetch resolves the payload for query, consulting the cache, the
// credential configuration, the rate budget, and the upstream provider
// in that order.
func (s *Service) Fetch(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		query = s.cfg.DefaultQuery
	}
	cacheKey := s.cfg.KeyPrefix + normalizeQuery(query)

	// Fast path: a live cache entry short-circuits before the limiter
	// or upstream are touched.
	if entry := s.cache.Lookup(ctx, cacheKey); entry != nil {
		cachedAt := entry.CachedAt
		return Result{
			Success:  true,
			Data:     entry.Payload,
			Cached:   true,
			CachedAt: &cachedAt,
		}
	}

	v, _, _ := s.flight.Do(cacheKey, func() (any, error) {
		// All collapsed waiters share this one result, so the upstream
		// call is detached from the leader's request context: one
		// cancelled client must not fail everyone behind it. The HTTP
		// client's own timeout still bounds the call.
		return s.fetchMiss(context.WithoutCancel(ctx), cacheKey, query), nil
	})
	return v.(Result)
}

// fetchMiss handles the cache-miss path: fallback seeding, budget
// acquisition, the upstream call, and the cache write.
func (s *Service) fetchMiss(ctx context.Context, cacheKey, query string) Result {
	// No credential: serve the static fallback and persist it under the
	// same TTL so repeated calls within the window reuse it.
	if s.cfg.HasCredential == nil || !s.cfg.HasCredential() {
		payload := s.cfg.Fallback(query)
		s.cache.Store(ctx, cacheKey, string(s.cfg.Provider), payload, s.cfg.TTL)
		return Result{
			Success:  true,
			Data:     payload,
			Fallback: true,
		}
	}

	if !s.limiter.TryAcquire(ctx, string(s.cfg.Provider), s.cfg.MaxRequests, s.cfg.Window) {
		// Budget exhausted: the cache is left untouched and the caller
		// retries on its own refresh cadence.
		return Result{
			Success: false,
			Error:   "rate limit exceeded",
			Err: types.NewAppError(
				types.ErrCodeRateLimit,
				"rate limit exceeded for "+string(s.cfg.Provider),
				nil,
			),
		}
	}

	payload, err := s.cfg.CallUpstream(ctx, query)
	if err != nil {
		s.logger.Warn("upstream fetch failed",
			slog.String("provider", string(s.cfg.Provider)),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		res := Result{
			Success: false,
			Error:   err.Error(),
			Err:     err,
		}
		if s.cfg.FallbackOnError {
			res.Data = s.cfg.Fallback(query)
		}
		return res
	}

	s.cache.Store(ctx, cacheKey, string(s.cfg.Provider), payload, s.cfg.TTL)
	return Result{
		Success: true,
		Data:    payload,
	}
}
