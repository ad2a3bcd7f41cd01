package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
)

// NewPostgresPool creates a connection pool, retrying the initial ping with
// a fixed delay. The pipeline is usually started together with the database,
// so the first attempts are expected to fail while it comes up.
func NewPostgresPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		log.Printf("Connecting to PostgreSQL (attempt %d/%d)...", attempt, cfg.ConnectRetries)

		if err = pool.Ping(ctx); err == nil {
			return pool, nil
		}

		log.Printf("Failed to connect to PostgreSQL (attempt %d/%d): %v", attempt, cfg.ConnectRetries, err)

		if attempt == cfg.ConnectRetries {
			break
		}

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectDelay):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("unable to connect to PostgreSQL after %d attempts: %w", cfg.ConnectRetries, err)
}

// Close closes the connection pool
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
