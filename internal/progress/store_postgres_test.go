package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/pai-academy/internal/platform/database"
	"github.com/p-n-ai/pai-academy/internal/progress"
)

func TestNewPostgresStore_NilPool(t *testing.T) {
	if _, err := progress.NewPostgresStore(nil); err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("academy"),
		postgres.WithUsername("pai"),
		postgres.WithPassword("pai"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(ctr)
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	db, err := database.Open(ctx, dsn, database.WithPoolSize(4, 1))
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Applied versions are skipped.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	s, err := progress.NewPostgresStore(db.Pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := s.MarkComplete(ctx, "u1", "lesson-role", at)
	if err != nil || !created {
		t.Fatalf("MarkComplete() = %v, %v; want true", created, err)
	}
	created, err = s.MarkComplete(ctx, "u1", "lesson-role", at.Add(time.Hour))
	if err != nil || created {
		t.Fatalf("second MarkComplete() = %v, %v; want false", created, err)
	}
	_, _ = s.MarkComplete(ctx, "u1", "lesson-context", at.Add(time.Minute))

	got, err := s.Completions(ctx, "u1")
	if err != nil {
		t.Fatalf("Completions() error = %v", err)
	}
	if len(got) != 2 || got[0].LessonID != "lesson-role" {
		t.Fatalf("Completions() = %+v", got)
	}
	if !got[0].CompletedAt.Equal(at) {
		t.Errorf("CompletedAt = %v, want %v", got[0].CompletedAt, at)
	}
}
