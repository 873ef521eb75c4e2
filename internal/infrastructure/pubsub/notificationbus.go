package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/civictrack/civictrack/internal/domain/notification"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// NotificationHandler is called for every notification received.
type NotificationHandler func(ctx context.Context, n notification.Notification)

const DefaultNotificationChannel = "civictrack:notifications"

// RedisNotificationBus publishes notifications over Redis Pub/Sub so any
// delivery worker (push, SMS, in-app feed) can pick them up.
type RedisNotificationBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisNotificationBus(client *redis.Client, channel string, logger logger.Interface) *RedisNotificationBus {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &RedisNotificationBus{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Notify implements notification.Sink.
func (b *RedisNotificationBus) Notify(ctx context.Context, n notification.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish notification",
			"user_id", n.UserID,
			"type", n.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	b.logger.Debugw("notification published",
		"channel", b.channel,
		"user_id", n.UserID,
		"type", n.Type,
	)
	return nil
}

// Subscribe blocks, passing each notification to handler until ctx ends.
func (b *RedisNotificationBus) Subscribe(ctx context.Context, handler NotificationHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to notifications", "channel", b.channel)

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("notification subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("notification channel closed")
				return nil
			}

			var n notification.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				b.logger.Warnw("failed to unmarshal notification",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			handler(ctx, n)
		}
	}
}
