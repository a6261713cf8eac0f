package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got entry
	hit, err := c.Get(ctx, "test:missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "test:entry", entry{Name: "a", Count: 2}, time.Minute))
	hit, err = c.Get(ctx, "test:entry", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, entry{Name: "a", Count: 2}, got)

	require.NoError(t, c.Delete(ctx, "test:entry"))
	hit, err = c.Get(ctx, "test:entry", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	hit, _ := c.Get(ctx, "k", &got)
	assert.True(t, hit)

	now = now.Add(time.Minute)
	hit, _ = c.Get(ctx, "k", &got)
	assert.False(t, hit)
	assert.Empty(t, c.items)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	c, err := NewRedisCache(addr)
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}
