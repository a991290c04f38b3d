package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/model"
)

// ActivityBroker fans class activity events out over Redis Pub/Sub so every
// server instance can push them to the admins watching that class.
type ActivityBroker struct {
	rdb *redis.Client
}

// NewActivityBroker creates a new ActivityBroker.
func NewActivityBroker(rdb *redis.Client) *ActivityBroker {
	return &ActivityBroker{rdb: rdb}
}

// Publish sends an event on the class channel.
func (b *ActivityBroker) Publish(ctx context.Context, event model.ActivityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, config.CacheKey.ClassActivityChannel(event.ClassID), string(data)).Err()
}

// Subscribe listens on the class channel. The caller must Close the returned PubSub.
func (b *ActivityBroker) Subscribe(ctx context.Context, classID int) *redis.PubSub {
	return b.rdb.Subscribe(ctx, config.CacheKey.ClassActivityChannel(classID))
}
