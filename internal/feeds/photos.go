package feeds

import (
	"context"
	"encoding/json"
	"log/slog"

	"driftboard/internal/config"
	"driftboard/internal/types"
)

// PhotosUpstream is the subset of the Pexels client the photos adapter
// uses.
type PhotosUpstream interface {
	Search(ctx context.Context, query string) ([]types.Photo, error)
}

// NewPhotosService builds the fetch engine for the photos provider.
//
// Photos is the one provider that attaches its curated fallback to
// failed results: the ambient display always has something to show,
// even when the upstream is down.
func NewPhotosService(
	cfg config.FeedsConfig,
	upstream PhotosUpstream,
	cache *CacheStore,
	limiter *RateLimiter,
	logger *slog.Logger,
) *Service {
	return NewService(ProviderConfig{
		Provider:     types.ProviderPexels,
		KeyPrefix:    "photos:",
		TTL:          cfg.PhotosTTL,
		DefaultQuery: cfg.DefaultPhotosQuery,
		MaxRequests:  cfg.PhotosMaxRequests,
		Window:       cfg.PhotosWindow,
		HasCredential: func() bool {
			return cfg.PexelsAPIKey != "" && upstream != nil
		},
		CallUpstream: func(ctx context.Context, query string) (json.RawMessage, error) {
			photos, err := upstream.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			// An empty result set is not worth caching; serve the curated
			// set instead so the rotation never goes blank.
			if len(photos) == 0 {
				photos = curatedPhotos
			}
			return json.Marshal(photos)
		},
		Fallback: func(string) json.RawMessage {
			return mustMarshal(curatedPhotos)
		},
		FallbackOnError: true,
	}, cache, limiter, logger)
}
