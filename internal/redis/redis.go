package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"monollogs/internal/config"

	redis "github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// Client is the shared connection behind the redis report archive.
type Client struct {
	inner *redis.Client
}

// ErrCacheMiss mirrors redis.Nil for callers.
var ErrCacheMiss = redis.Nil

var errNotInitialized = errors.New("redis client not initialized")

// NewRedisClient dials the configured server and pings it before returning.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	client := redis.NewClient(clientOptions(cfg.Redis))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}
	return &Client{inner: client}, nil
}

func clientOptions(rc config.RedisConfig) *redis.Options {
	host, port := rc.Host, rc.Port
	if host == "" {
		host = "127.0.0.1"
	}
	if port == 0 {
		port = 6379
	}
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Username: rc.Username,
		Password: rc.Password,
		DB:       rc.DB,
	}
}

// Set stores value under key, expiring after ttl.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.ready() {
		return errNotInitialized
	}
	return c.inner.Set(ctx, key, value, ttl).Err()
}

// Get fetches the key as string. A missing key yields ErrCacheMiss.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if !c.ready() {
		return "", errNotInitialized
	}
	return c.inner.Get(ctx, key).Result()
}

func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	if !c.ready() {
		return 0, errNotInitialized
	}
	return c.inner.TTL(ctx, key).Result()
}

func (c *Client) Close() error {
	if !c.ready() {
		return nil
	}
	return c.inner.Close()
}

func (c *Client) ready() bool {
	return c != nil && c.inner != nil
}
