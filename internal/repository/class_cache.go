package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/model"
)

// ClassCache holds the serialized class list in Redis.
type ClassCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClassCache creates a new ClassCache whose entries live for ttl.
func NewClassCache(rdb *redis.Client, ttl time.Duration) *ClassCache {
	return &ClassCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached class list. ok is false on a cache miss.
func (c *ClassCache) Get(ctx context.Context) (classes []model.Class, ok bool, err error) {
	data, err := c.rdb.Get(ctx, config.CacheKey.ClassListKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, false, err
	}
	return classes, true, nil
}

// Set replaces the cached class list.
func (c *ClassCache) Set(ctx context.Context, classes []model.Class) error {
	data, err := json.Marshal(classes)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, config.CacheKey.ClassListKey(), string(data), c.ttl).Err()
}

// Invalidate drops the cached class list so the next read goes to PostgreSQL.
func (c *ClassCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, config.CacheKey.ClassListKey()).Err()
}
