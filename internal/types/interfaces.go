package types

import (
	"context"
	"time"
)

// CacheRepository provides raw access to the data_cache table. The
// validity/expiry policy lives one layer up in the feed cache store;
// this interface is storage only.
type CacheRepository interface {
	// Get returns the entry for key, or nil when no row exists.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Upsert creates or overwrites the entry keyed by entry.Key.
	Upsert(ctx context.Context, entry *CacheEntry) error

	// Delete removes the entry for key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// RateBudgetRepository provides raw access to the api_rate_limits table.
// The fixed-window algorithm lives in the feed rate limiter; callers of
// this interface only read and write whole budget rows.
type RateBudgetRepository interface {
	// Get returns the budget row for apiName, or nil when none exists.
	Get(ctx context.Context, apiName string) (*RateBudget, error)

	// Put creates or overwrites the budget row keyed by budget.APIName.
	Put(ctx context.Context, budget *RateBudget) error
}

// WidgetRepository provides data access for the widget_positions table.
type WidgetRepository interface {
	List(ctx context.Context, sceneID *string) ([]*WidgetInstance, error)
	Get(ctx context.Context, id string) (*WidgetInstance, error)
	Insert(ctx context.Context, w *WidgetInstance) error
	UpdatePosition(ctx context.Context, id string, x, y float64) error
	UpdateVisibility(ctx context.Context, id string, visible bool) error
	UpdateSettings(ctx context.Context, id string, settings Settings) error
	UpdateElevation(ctx context.Context, id string, elevation Elevation, zIndex int) error
	UpdateZIndex(ctx context.Context, id string, zIndex int) error
	Delete(ctx context.Context, id string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }
