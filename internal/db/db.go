package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavetrack/internal/platform/config"
)

// Connect opens the pool and verifies the database is actually reachable
// before migrations or seeding run against it.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "leavetrack"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
