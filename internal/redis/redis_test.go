package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monollogs/internal/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = port
	client, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestSetGetWithTTL(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	ttl, err := client.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisClientFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	cfg := config.Default()
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	_, err = NewRedisClient(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis "+host)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	assert.Error(t, c.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, c.Close())
}
