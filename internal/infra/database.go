package infra

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool configures a PostgreSQL connection pool and verifies
// connectivity before returning it.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// LazyPool is a shared, lazily-established connection handle. It is injected
// into repositories at startup but only dials Postgres on first use; the first
// caller performs the dial and every other concurrent caller waits for that
// same attempt instead of opening a redundant connection.
type LazyPool struct {
	url  string
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

// NewLazyPool wraps a connection string without connecting.
func NewLazyPool(url string) *LazyPool {
	return &LazyPool{url: url}
}

// Get returns the shared pool, establishing it on first call. The first
// caller's context bounds the dial; a failed dial is sticky for the process
// lifetime, matching the no-retry policy around the store.
func (l *LazyPool) Get(ctx context.Context) (*pgxpool.Pool, error) {
	l.once.Do(func() {
		l.pool, l.err = NewPostgresPool(ctx, l.url)
	})
	return l.pool, l.err
}

// Close releases the pool if it was ever established.
func (l *LazyPool) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}
