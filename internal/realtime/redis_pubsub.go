package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelSubmissions = "submissions:changed"
	publishTimeout     = 5 * time.Second
)

// changeMarker is the message published to Redis when the submissions
// collection changes. Subscribers refetch the snapshot themselves, so
// the marker carries no data beyond a timestamp.
type changeMarker struct {
	At int64 `json:"at"`
}

// RedisPubSub bridges submission change markers across instances.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates a Redis pub/sub bridge for the submissions feed.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, logger: logger}
}

// PublishChanged publishes a change marker to the submissions channel.
func (r *RedisPubSub) PublishChanged() error {
	body, err := json.Marshal(changeMarker{At: time.Now().Unix()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, channelSubmissions, body).Err()
}

// SubscribeChanged subscribes to the submissions channel and calls
// handler for each change marker. The returned cancel function stops
// the subscription and closes the underlying connection.
func (r *RedisPubSub) SubscribeChanged(handler func()) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(ctx, channelSubmissions)
	if _, err = pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				handler()
			}
		}
	}()
	return func() { cancelCtx() }, nil
}
