package feeds

import (
	"context"
	"sync"
	"time"

	"driftboard/internal/types"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memCacheRepo is an in-memory CacheRepository with optional error
// injection.
type memCacheRepo struct {
	mu      sync.Mutex
	entries map[string]*types.CacheEntry
	deletes []string

	getErr    error
	upsertErr error
	deleteErr error
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: make(map[string]*types.CacheEntry)}
}

func (r *memCacheRepo) Get(_ context.Context, key string) (*types.CacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	entry, ok := r.entries[key]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (r *memCacheRepo) Upsert(_ context.Context, entry *types.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	cp := *entry
	r.entries[entry.Key] = &cp
	return nil
}

func (r *memCacheRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, key)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.entries, key)
	return nil
}

// memBudgetRepo is an in-memory RateBudgetRepository with optional
// error injection.
type memBudgetRepo struct {
	mu      sync.Mutex
	budgets map[string]*types.RateBudget

	getErr error
	putErr error
}

func newMemBudgetRepo() *memBudgetRepo {
	return &memBudgetRepo{budgets: make(map[string]*types.RateBudget)}
}

func (r *memBudgetRepo) Get(_ context.Context, apiName string) (*types.RateBudget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	budget, ok := r.budgets[apiName]
	if !ok {
		return nil, nil
	}
	cp := *budget
	return &cp, nil
}

func (r *memBudgetRepo) Put(_ context.Context, budget *types.RateBudget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	cp := *budget
	r.budgets[budget.APIName] = &cp
	return nil
}
