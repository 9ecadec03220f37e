// Package database owns the PostgreSQL pool and the embedded schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmptyURL is returned when no connection URL is configured.
var ErrEmptyURL = errors.New("database URL is empty")

// DB wraps a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// Option tunes the pool before it is opened.
type Option func(*pgxpool.Config)

// WithPoolSize bounds the number of open connections.
func WithPoolSize(maxConns, minConns int) Option {
	return func(cfg *pgxpool.Config) {
		if maxConns > 0 {
			cfg.MaxConns = int32(maxConns)
		}
		if minConns >= 0 && minConns <= int(cfg.MaxConns) {
			cfg.MinConns = int32(minConns)
		}
	}
}

// WithConnLifetime recycles connections after lifetime and drops ones idle
// for longer than idle.
func WithConnLifetime(lifetime, idle time.Duration) Option {
	return func(cfg *pgxpool.Config) {
		cfg.MaxConnLifetime = lifetime
		cfg.MaxConnIdleTime = idle
	}
}

// ParseURL validates a PostgreSQL connection URL.
func ParseURL(url string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	return cfg, nil
}

// Open connects to url and pings the server once.
func Open(ctx context.Context, url string, opts ...Option) (*DB, error) {
	cfg, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	WithConnLifetime(30*time.Minute, 5*time.Minute)(cfg)
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() { db.Pool.Close() }

// HealthCheck pings the server.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
