package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPageInvalidator drops cached read-side pages in Redis. Pages are
// keyed per aggregate plus list pages shared across aggregates; DEL on a
// missing key is a no-op, so invalidation is always safe to fire.
type RedisPageInvalidator struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisPageInvalidator connects to Redis and returns the invalidator
func NewRedisPageInvalidator(cfg RedisConfig) (*RedisPageInvalidator, error) {
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

	return &RedisPageInvalidator{
		client:    client,
		keyPrefix: "pages:",
	}, nil
}

// NewRedisPageInvalidatorWithClient wraps an existing client, useful for
// tests or when sharing a client across components
func NewRedisPageInvalidatorWithClient(client *redis.Client, keyPrefix string) *RedisPageInvalidator {
	if keyPrefix == "" {
		keyPrefix = "pages:"
	}
	return &RedisPageInvalidator{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// InvalidateOrder drops the order's detail page and the order list pages
func (i *RedisPageInvalidator) InvalidateOrder(ctx context.Context, orderID string) error {
	return i.client.Del(ctx,
		i.keyPrefix+"order:"+orderID,
		i.keyPrefix+"orders:list",
	).Err()
}

// InvalidateClient drops the client's account page and the client list pages
func (i *RedisPageInvalidator) InvalidateClient(ctx context.Context, clientID string) error {
	return i.client.Del(ctx,
		i.keyPrefix+"client:"+clientID,
		i.keyPrefix+"clients:list",
	).Err()
}

// Close closes the underlying Redis client
func (i *RedisPageInvalidator) Close() error {
	return i.client.Close()
}

// NoopInvalidator is used when no Redis instance is configured
type NoopInvalidator struct{}

// InvalidateOrder does nothing
func (NoopInvalidator) InvalidateOrder(ctx context.Context, orderID string) error { return nil }

// InvalidateClient does nothing
func (NoopInvalidator) InvalidateClient(ctx context.Context, clientID string) error { return nil }
