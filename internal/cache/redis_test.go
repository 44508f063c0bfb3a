package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })
	return rc, mr
}

func TestSetGet(t *testing.T) {
	rc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "k", "v", time.Minute))
	got, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestExpiry(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "page", "<html/>", 10*time.Second))
	assert.Equal(t, 10*time.Second, mr.TTL("page"))

	mr.FastForward(11 * time.Second)
	_, err := rc.Get(ctx, "page")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestWithPrefix(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	pages := rc.WithPrefix(PagePrefix)
	require.NoError(t, pages.Set(ctx, "a", "1", 0))

	assert.True(t, mr.Exists("dugout:page:a"))
	assert.False(t, mr.Exists("a"))

	got, err := pages.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("not a url")
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	rc, mr := newTestCache(t)
	assert.NoError(t, rc.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, rc.HealthCheck(context.Background()))
}
