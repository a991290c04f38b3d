package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker reports whether the backing stores are reachable.
type Checker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewChecker creates a Checker over the application's pool and Redis client.
func NewChecker(pool *pgxpool.Pool, rdb *redis.Client) *Checker {
	return &Checker{pool: pool, rdb: rdb}
}

// Check pings PostgreSQL and Redis with the caller's deadline.
func (c *Checker) Check(ctx context.Context) map[string]string {
	status := map[string]string{"postgres": "ok", "redis": "ok"}

	if err := c.pool.Ping(ctx); err != nil {
		status["postgres"] = fmt.Sprintf("down: %v", err)
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		status["redis"] = fmt.Sprintf("down: %v", err)
	}
	return status
}
