package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/p-n-ai/pai-academy/internal/platform/cache"
)

// BudgetChecker checks and records daily token usage per user.
type BudgetChecker interface {
	// Check returns true if the user has budget remaining today.
	Check(ctx context.Context, userID string) (bool, error)
	// Record records token usage for a user.
	Record(ctx context.Context, userID string, tokens int) error
	// Usage returns today's usage and the daily limit (0 = unlimited).
	Usage(ctx context.Context, userID string) (used int64, limit int64, err error)
}

// InMemoryBudget is an in-process daily budget tracker for development
// and tests.
type InMemoryBudget struct {
	mu    sync.RWMutex
	limit int64
	usage map[string]int64 // day:user -> tokens used
	now   func() time.Time
}

// NewInMemoryBudget creates a tracker with a per-user daily limit. A limit
// of 0 means unlimited.
func NewInMemoryBudget(dailyLimit int64) *InMemoryBudget {
	return &InMemoryBudget{
		limit: dailyLimit,
		usage: make(map[string]int64),
		now:   time.Now,
	}
}

func (b *InMemoryBudget) Check(_ context.Context, userID string) (bool, error) {
	if b.limit <= 0 {
		return true, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.usage[budgetKey(b.now(), userID)] < b.limit, nil
}

func (b *InMemoryBudget) Record(_ context.Context, userID string, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("tokens must be non-negative, got %d", tokens)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.usage[budgetKey(b.now(), userID)] += int64(tokens)
	return nil
}

func (b *InMemoryBudget) Usage(_ context.Context, userID string) (int64, int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.usage[budgetKey(b.now(), userID)], b.limit, nil
}

// CacheBudget keeps daily counters in Dragonfly/Redis so every server
// instance shares them. Counters expire a day after they start.
type CacheBudget struct {
	cache cache.Store
	limit int64
	now   func() time.Time
}

// NewCacheBudget creates a cache-backed tracker. A limit of 0 means
// unlimited, though usage is still recorded.
func NewCacheBudget(c cache.Store, dailyLimit int64) *CacheBudget {
	return &CacheBudget{cache: c, limit: dailyLimit, now: time.Now}
}

func (b *CacheBudget) Check(ctx context.Context, userID string) (bool, error) {
	if b.limit <= 0 {
		return true, nil
	}
	used, _, err := b.Usage(ctx, userID)
	if err != nil {
		return false, err
	}
	return used < b.limit, nil
}

func (b *CacheBudget) Record(ctx context.Context, userID string, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("tokens must be non-negative, got %d", tokens)
	}
	if _, err := b.cache.IncrBy(ctx, "ai:"+budgetKey(b.now(), userID), int64(tokens), 24*time.Hour); err != nil {
		return fmt.Errorf("recording token usage: %w", err)
	}
	return nil
}

func (b *CacheBudget) Usage(ctx context.Context, userID string) (int64, int64, error) {
	raw, err := b.cache.Get(ctx, "ai:"+budgetKey(b.now(), userID))
	if errors.Is(err, cache.ErrMiss) {
		return 0, b.limit, nil
	}
	if err != nil {
		return 0, b.limit, fmt.Errorf("reading token usage: %w", err)
	}
	used, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, b.limit, fmt.Errorf("parsing token usage: %w", err)
	}
	return used, b.limit, nil
}

func budgetKey(now time.Time, userID string) string {
	return "budget:" + now.UTC().Format("2006-01-02") + ":" + userID
}
