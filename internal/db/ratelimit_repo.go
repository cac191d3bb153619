package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"driftboard/internal/types"
)

// RateBudgetRepository provides data access for the api_rate_limits
// table. One row exists per upstream API name; rows are created lazily
// and never deleted. The fixed-window algorithm lives in the feeds
// package; this repository only reads and writes whole rows, which
// preserves the documented soft race between concurrent acquirers.
type RateBudgetRepository struct {
	db DBTX
}

// NewRateBudgetRepository creates a RateBudgetRepository backed by the
// given database connection (pool or transaction).
func NewRateBudgetRepository(db DBTX) *RateBudgetRepository {
	return &RateBudgetRepository{db: db}
}

var _ types.RateBudgetRepository = (*RateBudgetRepository)(nil)

// Get returns the budget row for apiName, or nil when none exists.
func (r *RateBudgetRepository) Get(ctx context.Context, apiName string) (*types.RateBudget, error) {
	var (
		budget   types.RateBudget
		windowMs int64
	)
	err := r.db.QueryRow(ctx,
		`SELECT api_name, window_start, window_duration_ms, requests_count, max_requests
		 FROM api_rate_limits WHERE api_name = $1`,
		apiName,
	).Scan(&budget.APIName, &budget.WindowStart, &windowMs, &budget.RequestCount, &budget.MaxRequests)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query rate budget", err)
	}
	budget.WindowDuration = time.Duration(windowMs) * time.Millisecond
	return &budget, nil
}

// Put creates or overwrites the budget row keyed by budget.APIName.
func (r *RateBudgetRepository) Put(ctx context.Context, budget *types.RateBudget) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO api_rate_limits (api_name, window_start, window_duration_ms, requests_count, max_requests, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (api_name) DO UPDATE SET
		   window_start = EXCLUDED.window_start,
		   window_duration_ms = EXCLUDED.window_duration_ms,
		   requests_count = EXCLUDED.requests_count,
		   max_requests = EXCLUDED.max_requests,
		   updated_at = NOW()`,
		budget.APIName,
		budget.WindowStart,
		budget.WindowDuration.Milliseconds(),
		budget.RequestCount,
		budget.MaxRequests,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to write rate budget", err)
	}
	return nil
}
