package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agrigate/database"
)

// NewDBPool applies pending migrations, then builds a pgxpool with sane
// defaults and validates connectivity.
func NewDBPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
		return nil, err
	}

	pcfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MaxConns > 0 {
		pcfg.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns >= 0 {
		pcfg.MinConns = cfg.Database.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	if err := PingDB(ctx, pool, 3*time.Second); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// PingDB checks if we can acquire a connection within timeout.
func PingDB(parent context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	conn.Release()
	return nil
}
