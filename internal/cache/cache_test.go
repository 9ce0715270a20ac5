package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	_, ok, err := c.Get(ctx, "videos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "videos", []byte("[1,2]")))
	got, ok, err := c.Get(ctx, "videos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("[1,2]"), got)
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory(time.Hour)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	now = now.Add(59 * time.Minute)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_Purge(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)
	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	require.NoError(t, c.Purge(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("MAWANG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MAWANG_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedis(ctx, addr, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "test:videos", []byte("[3]")))
	got, ok, err := c.Get(ctx, "test:videos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("[3]"), got)

	require.NoError(t, c.Purge(ctx))
	_, ok, err = c.Get(ctx, "test:videos")
	require.NoError(t, err)
	assert.False(t, ok)
}
