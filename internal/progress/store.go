package progress

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Completion is one finished lesson.
type Completion struct {
	UserID      string    `json:"userId"`
	LessonID    string    `json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Store persists lesson completions.
type Store interface {
	// MarkComplete records a completion and reports whether it was new.
	// Repeated calls keep the first completion time.
	MarkComplete(ctx context.Context, userID, lessonID string, at time.Time) (bool, error)
	// Completions lists a user's completions, oldest first.
	Completions(ctx context.Context, userID string) ([]Completion, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	completions map[string]map[string]time.Time
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		completions: make(map[string]map[string]time.Time),
	}
}

func (s *MemoryStore) MarkComplete(_ context.Context, userID, lessonID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lessons, ok := s.completions[userID]
	if !ok {
		lessons = make(map[string]time.Time)
		s.completions[userID] = lessons
	}
	if _, done := lessons[lessonID]; done {
		return false, nil
	}
	lessons[lessonID] = at
	return true, nil
}

func (s *MemoryStore) Completions(_ context.Context, userID string) ([]Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Completion, 0, len(s.completions[userID]))
	for lessonID, at := range s.completions[userID] {
		out = append(out, Completion{UserID: userID, LessonID: lessonID, CompletedAt: at})
	}
	sortCompletions(out)
	return out, nil
}

func sortCompletions(c []Completion) {
	sort.Slice(c, func(i, j int) bool {
		if !c[i].CompletedAt.Equal(c[j].CompletedAt) {
			return c[i].CompletedAt.Before(c[j].CompletedAt)
		}
		return c[i].LessonID < c[j].LessonID
	})
}
