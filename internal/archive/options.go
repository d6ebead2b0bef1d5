package archive

import (
	"time"

	"monollogs/internal/redis"
)

// StoreOption configures an archive store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
}

// WithRedisClient sets the client for the redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithTTL bounds how long a report stays retrievable.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithClock replaces time.Now for the memory store's expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		c.now = now
	}
}
