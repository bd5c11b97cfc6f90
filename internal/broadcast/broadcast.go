// Package broadcast publishes order status events to subscriber channels.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopmart/storefront/internal/models"
)

// admin channel receives every order event; customers subscribe to their own
const adminChannel = "admin.orders"

func userChannel(userID uint64) string {
	return fmt.Sprintf("user.%d.orders", userID)
}

// RedisBroadcaster publishes events over redis pub/sub
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster creates new RedisBroadcaster instance
func NewRedisBroadcaster(addr string) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Publish sends the event to the order owner's channel and the admin channel.
// Delivery is at-most-once, subscribers must tolerate missed and duplicate events.
func (b *RedisBroadcaster) Publish(ctx context.Context, event models.OrderStatusChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, userChannel(event.UserID), data).Err(); err != nil {
		return fmt.Errorf("publish user channel: %w", err)
	}
	if err := b.client.Publish(ctx, adminChannel, data).Err(); err != nil {
		return fmt.Errorf("publish admin channel: %w", err)
	}

	return nil
}

// Close closes the underlying redis client
func (b *RedisBroadcaster) Close() error {
	return b.client.Close()
}

// NopBroadcaster drops events, used when no redis address is configured
type NopBroadcaster struct{}

func (NopBroadcaster) Publish(context.Context, models.OrderStatusChangedEvent) error { return nil }
