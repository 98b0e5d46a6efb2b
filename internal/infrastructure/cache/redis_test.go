package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsave/freshness/internal/domain"
)

// unreachableClient points at a port nothing listens on
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://not-redis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestRedisCache_UnavailableErrors(t *testing.T) {
	c := newRedisCacheFromClient(unreachableClient())
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	err = c.Set(ctx, "k", "v", time.Minute)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	err = c.Delete(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	_, err = c.Exists(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestRedisCache_SetRejectsUnencodable(t *testing.T) {
	c := newRedisCacheFromClient(unreachableClient())
	defer c.Close()

	err := c.Set(context.Background(), "k", make(chan int), time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheUnavailable)
}
