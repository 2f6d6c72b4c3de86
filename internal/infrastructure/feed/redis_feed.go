package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/infrastructure/config"
	syncx "github.com/shopdesk/backend/internal/sync"
	"go.uber.org/zap"
)

const defaultChannelPrefix = "shopdesk:changes"

// RedisConfig holds connection settings for the change-feed transport
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisFeed carries change events over Redis Pub/Sub, one logical channel per
// entity type. It is both the subscription transport for this client and the
// publisher used by the gateway to notify every client after a durable write.
type RedisFeed struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	prefix     string
	logger     *zap.Logger
}

// RedisFeedOption is a functional option for RedisFeed
type RedisFeedOption func(*RedisFeed)

// WithChannelPrefix sets the Pub/Sub channel name prefix
func WithChannelPrefix(prefix string) RedisFeedOption {
	return func(f *RedisFeed) {
		f.prefix = prefix
	}
}

// WithLogger sets the logger for the feed
func WithLogger(logger *zap.Logger) RedisFeedOption {
	return func(f *RedisFeed) {
		f.logger = logger
	}
}

// NewRedisFeed creates a feed with its own Redis connection
func NewRedisFeed(cfg RedisConfig, opts ...RedisFeedOption) (*RedisFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	feed := &RedisFeed{
		client:     client,
		ownsClient: true,
		prefix:     defaultChannelPrefix,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(feed)
	}
	return feed, nil
}

// NewRedisFeedFromConfig creates a feed from application configuration
func NewRedisFeedFromConfig(cfg *config.RedisConfig, opts ...RedisFeedOption) (*RedisFeed, error) {
	if cfg.ChannelPrefix != "" {
		opts = append([]RedisFeedOption{WithChannelPrefix(cfg.ChannelPrefix)}, opts...)
	}
	return NewRedisFeed(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, opts...)
}

// NewRedisFeedWithClient creates a feed over an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisFeedWithClient(client *redis.Client, opts ...RedisFeedOption) *RedisFeed {
	feed := &RedisFeed{
		client:     client,
		ownsClient: false,
		prefix:     defaultChannelPrefix,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(feed)
	}
	return feed
}

// channel returns the Pub/Sub channel name for an entity type
func (f *RedisFeed) channel(entityType shared.EntityType) string {
	return f.prefix + ":" + entityType.String()
}

// Publish sends a change event to every subscriber of the entity type's
// channel, including this process's own subscriber (the echo the suppression
// window exists to drop).
func (f *RedisFeed) Publish(ctx context.Context, event syncx.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	channel := f.channel(event.EntityType)
	if err := f.client.Publish(ctx, channel, data).Err(); err != nil {
		f.logger.Error("failed to publish change event",
			zap.String("channel", channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	f.logger.Debug("published change event",
		zap.String("channel", channel),
		zap.String("kind", string(event.Kind)),
		zap.String("record_id", event.RecordID))
	return nil
}

// Subscribe blocks, delivering notifications for the entity type to the
// handler until the context is cancelled. go-redis reconnects the underlying
// subscription transparently on connection drops; a missed message is healed
// by the next full refresh.
func (f *RedisFeed) Subscribe(ctx context.Context, entityType shared.EntityType, handler func(syncx.ChangeEvent)) error {
	channel := f.channel(entityType)
	pubsub := f.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	f.logger.Info("subscribed to change feed channel",
		zap.String("channel", channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("change feed subscription stopped",
				zap.String("channel", channel))
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				f.logger.Warn("change feed channel closed",
					zap.String("channel", channel))
				return nil
			}

			var event syncx.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Error("failed to unmarshal change event",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			handler(event)
		}
	}
}

// Close releases the Redis connection if this feed owns it
func (f *RedisFeed) Close() error {
	if f.ownsClient {
		return f.client.Close()
	}
	return nil
}

// Ensure RedisFeed implements both feed sides
var (
	_ syncx.Feed          = (*RedisFeed)(nil)
	_ syncx.FeedPublisher = (*RedisFeed)(nil)
)
