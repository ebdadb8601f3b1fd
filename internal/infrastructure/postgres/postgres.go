package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool tuning for the platform's workload: short bursts of small
// queries from the API handlers, nothing long-running.
const (
	defaultMaxConns  = 8
	connMaxLifetime  = time.Hour
	connMaxIdleTime  = 30 * time.Minute
	connectPingLimit = 5 * time.Second
)

// Database wraps the pgx connection pool shared by the repositories.
type Database struct {
	Pool *pgxpool.Pool
}

// New establishes a connection pool against the provided DSN and
// verifies connectivity before handing it out.
func New(ctx context.Context, dsn string) (*Database, error) {
	cfg, err := poolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectPingLimit)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// poolConfig parses the DSN and applies the workload tuning above.
func poolConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	if cfg.MaxConns < defaultMaxConns {
		cfg.MaxConns = defaultMaxConns
	}
	cfg.MaxConnLifetime = connMaxLifetime
	cfg.MaxConnIdleTime = connMaxIdleTime
	return cfg, nil
}

// Close drains the connection pool.
func (db *Database) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}
