package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/p-n-ai/pai-academy/internal/platform/cache"
)

// CachedStore is a read-through cache in front of another Store. A
// completion invalidates the user's cached list.
type CachedStore struct {
	next  Store
	cache cache.Store
	ttl   time.Duration
}

// NewCachedStore wraps next with c.
func NewCachedStore(next Store, c cache.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: c, ttl: ttl}
}

func completionsKey(userID string) string {
	return "progress:completions:" + userID
}

func (s *CachedStore) MarkComplete(ctx context.Context, userID, lessonID string, at time.Time) (bool, error) {
	created, err := s.next.MarkComplete(ctx, userID, lessonID, at)
	if err != nil {
		return false, err
	}
	if created {
		if err := s.cache.Delete(ctx, completionsKey(userID)); err != nil {
			slog.Warn("failed to invalidate progress cache", "user_id", userID, "error", err)
		}
	}
	return created, nil
}

func (s *CachedStore) Completions(ctx context.Context, userID string) ([]Completion, error) {
	key := completionsKey(userID)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var out []Completion
		if jsonErr := json.Unmarshal([]byte(raw), &out); jsonErr == nil {
			return out, nil
		}
		slog.Warn("dropping corrupt progress cache entry", "user_id", userID)
	case !errors.Is(err, cache.ErrMiss):
		slog.Warn("progress cache read failed", "user_id", userID, "error", err)
	}

	out, err := s.next.Completions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
			slog.Warn("progress cache write failed", "user_id", userID, "error", err)
		}
	}
	return out, nil
}
