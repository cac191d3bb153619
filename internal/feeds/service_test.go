package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftboard/internal/types"
)

// testProvider builds a Service over in-memory storage. The returned
// counters track upstream and fallback invocations.
type testProvider struct {
	service   *Service
	cacheRepo *memCacheRepo
	clock     *fakeClock

	upstreamCalls  int
	fallbackCalls  int
	upstreamCtxErr error

	upstreamPayload json.RawMessage
	upstreamErr     error
	hasCredential   bool
	fallbackOnError bool
}

func newTestProvider(t *testing.T) *testProvider {
	t.Helper()
	p := &testProvider{
		cacheRepo:       newMemCacheRepo(),
		clock:           newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		upstreamPayload: json.RawMessage(`{"live":true}`),
		hasCredential:   true,
	}
	cache := NewCacheStore(p.cacheRepo, p.clock, nil)
	limiter := NewRateLimiter(newMemBudgetRepo(), p.clock, nil)
	p.service = NewService(ProviderConfig{
		Provider:     types.ProviderSerperNews,
		KeyPrefix:    "news:",
		TTL:          15 * time.Minute,
		DefaultQuery: "latest news",
		MaxRequests:  2,
		Window:       time.Hour,
		HasCredential: func() bool {
			return p.hasCredential
		},
		CallUpstream: func(ctx context.Context, query string) (json.RawMessage, error) {
			p.upstreamCalls++
			p.upstreamCtxErr = ctx.Err()
			return p.upstreamPayload, p.upstreamErr
		},
		Fallback: func(query string) json.RawMessage {
			p.fallbackCalls++
			return json.RawMessage(`{"fallback":true}`)
		},
		FallbackOnError: p.fallbackOnError,
	}, cache, limiter, nil)
	return p
}

func TestService_UpstreamThenCache(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	res := p.service.Fetch(ctx, "tokyo startups")
	require.True(t, res.Success)
	assert.False(t, res.Cached)
	assert.JSONEq(t, `{"live":true}`, string(res.Data))
	assert.Equal(t, 1, p.upstreamCalls)

	// Second fetch within the TTL is served from cache; upstream is not
	// called again.
	res = p.service.Fetch(ctx, "tokyo startups")
	require.True(t, res.Success)
	assert.True(t, res.Cached)
	require.NotNil(t, res.CachedAt)
	assert.JSONEq(t, `{"live":true}`, string(res.Data))
	assert.Equal(t, 1, p.upstreamCalls)
}

func TestService_CancelledCallerDoesNotCancelUpstream(t *testing.T) {
	p := newTestProvider(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The miss path is shared by every caller collapsed onto it, so a
	// single cancelled request must not poison the upstream call.
	res := p.service.Fetch(ctx, "tokyo startups")
	require.True(t, res.Success)
	assert.Equal(t, 1, p.upstreamCalls)
	assert.NoError(t, p.upstreamCtxErr)
}

func TestService_EmptyQueryUsesDefault(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	res := p.service.Fetch(ctx, "   ")
	require.True(t, res.Success)

	// The default query's cache key now holds the payload.
	entry, err := p.cacheRepo.Get(ctx, "news:latest-news")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestService_QueryNormalizationSharesCacheKey(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	first := p.service.Fetch(ctx, "Tokyo  Startups")
	require.True(t, first.Success)

	second := p.service.Fetch(ctx, "  tokyo startups ")
	assert.True(t, second.Cached)
	assert.Equal(t, 1, p.upstreamCalls)
}

func TestService_NoCredentialServesFallback(t *testing.T) {
	p := newTestProvider(t)
	p.hasCredential = false
	ctx := context.Background()

	res := p.service.Fetch(ctx, "anything")
	require.True(t, res.Success)
	assert.True(t, res.Fallback)
	assert.JSONEq(t, `{"fallback":true}`, string(res.Data))
	assert.Zero(t, p.upstreamCalls)

	// The fallback is cached under the normal TTL, so the next fetch is
	// a cache hit carrying the identical payload.
	res = p.service.Fetch(ctx, "anything")
	require.True(t, res.Success)
	assert.True(t, res.Cached)
	assert.JSONEq(t, `{"fallback":true}`, string(res.Data))
	assert.Equal(t, 1, p.fallbackCalls)
}

func TestService_RateLimitDenial(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	// Budget is 2; distinct queries bypass the cache.
	require.True(t, p.service.Fetch(ctx, "one").Success)
	require.True(t, p.service.Fetch(ctx, "two").Success)

	res := p.service.Fetch(ctx, "three")
	assert.False(t, res.Success)
	assert.Equal(t, "rate limit exceeded", res.Error)
	assert.Nil(t, res.Data)

	var appErr *types.AppError
	require.ErrorAs(t, res.Err, &appErr)
	assert.Equal(t, types.ErrCodeRateLimit, appErr.Code)
	assert.Equal(t, 429, appErr.HTTPStatus())

	// The denied query was not cached.
	entry, err := p.cacheRepo.Get(ctx, "news:three")
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Cached queries keep working while the budget is exhausted.
	assert.True(t, p.service.Fetch(ctx, "one").Cached)
}

func TestService_UpstreamFailure(t *testing.T) {
	p := newTestProvider(t)
	p.upstreamErr = errors.New("upstream 500")
	ctx := context.Background()

	res := p.service.Fetch(ctx, "broken")
	assert.False(t, res.Success)
	assert.Equal(t, "upstream 500", res.Error)
	assert.Nil(t, res.Data)

	// Failures are never cached.
	entry, err := p.cacheRepo.Get(ctx, "news:broken")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestService_FallbackOnErrorAttachesData(t *testing.T) {
	p := &testProvider{
		cacheRepo:     newMemCacheRepo(),
		clock:         newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		hasCredential: true,
		upstreamErr:   errors.New("upstream down"),
	}
	cache := NewCacheStore(p.cacheRepo, p.clock, nil)
	limiter := NewRateLimiter(newMemBudgetRepo(), p.clock, nil)
	svc := NewService(ProviderConfig{
		Provider:      types.ProviderPexels,
		KeyPrefix:     "photos:",
		TTL:           time.Hour,
		DefaultQuery:  "nature",
		MaxRequests:   10,
		Window:        time.Hour,
		HasCredential: func() bool { return true },
		CallUpstream: func(ctx context.Context, query string) (json.RawMessage, error) {
			return nil, p.upstreamErr
		},
		Fallback: func(query string) json.RawMessage {
			return json.RawMessage(`[{"id":"curated"}]`)
		},
		FallbackOnError: true,
	}, cache, limiter, nil)

	res := svc.Fetch(context.Background(), "mountains")
	assert.False(t, res.Success)
	assert.Equal(t, "upstream down", res.Error)
	assert.JSONEq(t, `[{"id":"curated"}]`, string(res.Data))
}

func TestService_CacheExpiryTriggersRefetch(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	require.True(t, p.service.Fetch(ctx, "tokyo").Success)
	require.Equal(t, 1, p.upstreamCalls)

	p.clock.Advance(16 * time.Minute)

	res := p.service.Fetch(ctx, "tokyo")
	require.True(t, res.Success)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, p.upstreamCalls)
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tokyo Startups", "tokyo-startups"},
		{"  tokyo   startups  ", "tokyo-startups"},
		{"SAN FRANCISCO", "san-francisco"},
		{"one", "one"},
	}
	for _, tt := range tests {
		if got := normalizeQuery(tt.in); got != tt.want {
			t.Errorf("normalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
