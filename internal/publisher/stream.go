package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	StreamKey = "legs.updates"
	// streamMaxLen caps the stream; trimming is approximate
	streamMaxLen = 1000
)

// StreamPublisher publishes applied snapshots to a Redis stream
type StreamPublisher struct {
	client redis.Cmdable
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client redis.Cmdable) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

func (p *StreamPublisher) Name() string {
	return "redis-stream"
}

// PublishSnapshot appends the snapshot to the legs stream
func (p *StreamPublisher) PublishSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":       string(data),
			"updated_at": snapshot.UpdatedAt.Format(time.RFC3339),
			"live_count": snapshot.LiveCount,
		},
	}).Err()
}
