package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/kelas-backend/internal/config"
)

// SessionRepository keeps the server side of login sessions in Redis.
// A session is a token ID (jti) mapped to the ID of the user it was issued to.
type SessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

// Save stores a session that expires together with its token.
func (r *SessionRepository) Save(ctx context.Context, jti string, userID int, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.SessionKey(jti), strconv.Itoa(userID), ttl).Err()
}

// Lookup returns the user ID bound to jti, or ErrSessionNotFound.
func (r *SessionRepository) Lookup(ctx context.Context, jti string) (int, error) {
	val, err := r.rdb.Get(ctx, config.CacheKey.SessionKey(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt session %s: %w", jti, err)
	}
	return userID, nil
}

// Delete revokes a session. Deleting an unknown session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, jti string) error {
	return r.rdb.Del(ctx, config.CacheKey.SessionKey(jti)).Err()
}
