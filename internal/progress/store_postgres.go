package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store using the lesson_completions
// table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed progress store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) MarkComplete(ctx context.Context, userID, lessonID string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if userID == "" || lessonID == "" {
		return false, fmt.Errorf("user_id and lesson_id are required")
	}
	if at.IsZero() {
		at = time.Now()
	}

	cmd, err := s.pool.Exec(ctx,
		`INSERT INTO lesson_completions (user_id, lesson_id, completed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		userID,
		lessonID,
		at,
	)
	if err != nil {
		return false, fmt.Errorf("insert completion: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (s *PostgresStore) Completions(ctx context.Context, userID string) ([]Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT lesson_id, completed_at
		 FROM lesson_completions
		 WHERE user_id = $1
		 ORDER BY completed_at ASC, lesson_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	out := []Completion{}
	for rows.Next() {
		c := Completion{UserID: userID}
		if err := rows.Scan(&c.LessonID, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}
