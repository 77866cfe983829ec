package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tableside/internal/config"
)

const (
	maxConnectAttempts = 10
	connectRetryDelay  = 2 * time.Second
	pingTimeout        = 5 * time.Second
)

type Conn struct{ *pgxpool.Pool }

// Connect opens a pgx pool and waits for the database to become
// reachable, retrying on a fixed delay.
func Connect(ctx context.Context, cfg config.Database) (*Conn, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode, cfg.MaxConns)

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = pool.Ping(pctx)
		cancel()
		if err == nil {
			return &Conn{Pool: pool}, nil
		}
		pool.Close()
		lastErr = err

		select {
		case <-time.After(connectRetryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxConnectAttempts, lastErr)
}

func (c *Conn) Close() {
	if c != nil && c.Pool != nil {
		c.Pool.Close()
	}
}
