package feeds

import (
	"context"
	"log/slog"
	"time"

	"driftboard/internal/types"
)

// RateLimiter enforces a fixed-window request budget per upstream API
// name (not a token bucket). Budgets are shared across all clients of
// one deployment: the row keyed by apiName is global state.
//
// The check-then-act sequence (read row, compare counter, write row) is
// deliberately not wrapped in a transaction. Concurrent requests in the
// same instant can both observe count < max and both increment,
// transiently exceeding the nominal budget by a small margin. That soft
// race is an accepted property of this limiter, not a bug.
//
// Storage failures fail open (allow): an unreachable budget table must
// not take widget rendering down.
type RateLimiter struct {
	repo   types.RateBudgetRepository
	clock  types.Clock
	logger *slog.Logger
}

// NewRateLimiter creates a RateLimiter over the given repository.
func NewRateLimiter(repo types.RateBudgetRepository, clock types.Clock, logger *slog.Logger) *RateLimiter {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{repo: repo, clock: clock, logger: logger}
}

// TryAcquire consumes one request from the budget for apiName, creating
// the budget row lazily on first use. It returns false only when the
// current window's budget is exhausted; the denial holds for the
// remainder of the window.
func (l *RateLimiter) TryAcquire(ctx context.Context, apiName string, maxRequests int, window time.Duration) bool {
	now := l.clock.Now()

	budget, err := l.repo.Get(ctx, apiName)
	if err != nil {
		l.logger.Warn("rate budget read failed, allowing request",
			slog.String("api", apiName),
			slog.String("error", err.Error()),
		)
		return true
	}

	if budget == nil {
		budget = &types.RateBudget{
			APIName:        apiName,
			WindowStart:    now,
			WindowDuration: window,
			RequestCount:   1,
			MaxRequests:    maxRequests,
		}
		return l.put(ctx, apiName, budget)
	}

	if now.After(budget.WindowEnd()) {
		// Window elapsed: reset atomically with this acquiring request.
		budget.WindowStart = now
		budget.RequestCount = 1
		return l.put(ctx, apiName, budget)
	}

	if budget.RequestCount < budget.MaxRequests {
		budget.RequestCount++
		return l.put(ctx, apiName, budget)
	}

	return false
}

// put writes the budget row, failing open on storage errors.
func (l *RateLimiter) put(ctx context.Context, apiName string, budget *types.RateBudget) bool {
	if err := l.repo.Put(ctx, budget); err != nil {
		l.logger.Warn("rate budget write failed, allowing request",
			slog.String("api", apiName),
			slog.String("error", err.Error()),
		)
	}
	return true
}
