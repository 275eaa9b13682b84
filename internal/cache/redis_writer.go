package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Keys
const (
	SnapshotKey  = "legs:snapshot"
	UpdatedAtKey = "legs:updated_at"
	StatusKey    = "legs:status"
)

// DefaultSnapshotTTL keeps a snapshot readable for a while after the poller dies
const DefaultSnapshotTTL = 10 * time.Minute

// RedisWriter mirrors every applied snapshot into Redis
type RedisWriter struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client redis.Cmdable, ttl time.Duration) *RedisWriter {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisWriter{
		client: client,
		ttl:    ttl,
	}
}

func (w *RedisWriter) Name() string {
	return "redis-cache"
}

// PublishSnapshot stores the snapshot JSON, its timestamp and a status hash by leg id
func (w *RedisWriter) PublishSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	statuses := make(map[string]interface{}, len(snapshot.Legs))
	for _, leg := range snapshot.Legs {
		statuses[leg.ID] = string(leg.Status)
	}

	pipe := w.client.Pipeline()
	pipe.Set(ctx, SnapshotKey, data, w.ttl)
	pipe.Set(ctx, UpdatedAtKey, snapshot.UpdatedAt.Format(time.RFC3339), w.ttl)
	pipe.Del(ctx, StatusKey) // Clear removed legs
	if len(statuses) > 0 {
		pipe.HSet(ctx, StatusKey, statuses)
		pipe.Expire(ctx, StatusKey, w.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
