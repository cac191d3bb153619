package feeds

import (
	"context"
	"encoding/json"
	"log/slog"

	"driftboard/internal/config"
	"driftboard/internal/types"
)

// NewsUpstream is the subset of the Serper client the news adapter uses.
type NewsUpstream interface {
	SearchNews(ctx context.Context, query string) ([]types.NewsItem, error)
}

// NewNewsService builds the fetch engine for the news provider.
// Upstream may be nil when no credential is configured; the engine then
// serves the static fallback headlines.
func NewNewsService(
	cfg config.FeedsConfig,
	upstream NewsUpstream,
	cache *CacheStore,
	limiter *RateLimiter,
	logger *slog.Logger,
) *Service {
	return NewService(ProviderConfig{
		Provider:     types.ProviderSerperNews,
		KeyPrefix:    "news:",
		TTL:          cfg.NewsTTL,
		DefaultQuery: cfg.DefaultNewsQuery,
		MaxRequests:  cfg.NewsMaxRequests,
		Window:       cfg.NewsWindow,
		HasCredential: func() bool {
			return cfg.SerperAPIKey != "" && upstream != nil
		},
		CallUpstream: func(ctx context.Context, query string) (json.RawMessage, error) {
			items, err := upstream.SearchNews(ctx, query)
			if err != nil {
				return nil, err
			}
			return json.Marshal(items)
		},
		Fallback: func(string) json.RawMessage {
			return mustMarshal(fallbackNews)
		},
	}, cache, limiter, logger)
}
