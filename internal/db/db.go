package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// DB is the pgx pool backing the credential store.
type DB struct {
	Pool *pgxpool.Pool
}

// PoolOptions sizes the credential pool. Zero values keep the defaults.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

var defaultPoolOptions = PoolOptions{
	MaxConns:        10,
	MinConns:        2,
	MaxConnIdleTime: 5 * time.Minute,
}

func Connect(ctx context.Context, databaseURL string, opts PoolOptions) (*DB, error) {
	cfg, err := newPoolConfig(databaseURL, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create credential pool: %w", err)
	}

	d := &DB{Pool: pool}
	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return d, nil
}

func newPoolConfig(databaseURL string, opts PoolOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if opts.MaxConns <= 0 {
		opts.MaxConns = defaultPoolOptions.MaxConns
	}
	if opts.MinConns <= 0 {
		opts.MinConns = defaultPoolOptions.MinConns
	}
	if opts.MinConns > opts.MaxConns {
		opts.MinConns = opts.MaxConns
	}
	if opts.MaxConnIdleTime <= 0 {
		opts.MaxConnIdleTime = defaultPoolOptions.MaxConnIdleTime
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	return cfg, nil
}

// Ping is bounded by pingTimeout.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := d.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping credential pool: %w", err)
	}
	return nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}
