package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	calls := 0
	got, err := GetOrLoadJSON(c, ctx, "product:1", time.Minute, func(context.Context) (*item, error) {
		calls++
		return &item{Name: "shirt"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "shirt", got.Name)
	assert.Equal(t, 1, calls)

	_, err = GetOrLoadJSON(c, ctx, "product:2", time.Minute, func(context.Context) (*item, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	assert.NoError(t, c.Invalidate(ctx, "product:1"))
	assert.NoError(t, c.InvalidatePrefix(ctx, "product:"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestKeyPrefix(t *testing.T) {
	c := New("127.0.0.1:0", "", 0)
	defer c.Close()
	assert.Equal(t, "catalog:product:1", c.key("product:1"))
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadCachesUntilInvalidated(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "shirt"}, nil
	}
	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(c, ctx, "product:1", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "shirt", got.Name)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("catalog:product:1"))

	require.NoError(t, c.Invalidate(ctx, "product:1"))
	assert.False(t, mr.Exists("catalog:product:1"))

	_, err := GetOrLoadJSON(c, ctx, "product:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoadRacingInvalidateIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// 回源读到旧值后，写事务提交并失效 key，旧值不应再写回缓存
	got, err := GetOrLoadJSON(c, ctx, "product:1", time.Minute, func(ctx context.Context) (*item, error) {
		require.NoError(t, c.Invalidate(ctx, "product:1"))
		return &item{Name: "stale"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", got.Name)
	assert.False(t, mr.Exists("catalog:product:1"))

	got, err = GetOrLoadJSON(c, ctx, "product:1", time.Minute, func(context.Context) (*item, error) {
		return &item{Name: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Name)
	assert.True(t, mr.Exists("catalog:product:1"))
}

func TestInvalidatePrefixKeepsGenerations(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"product:1", "product:2"} {
		_, err := GetOrLoadJSON(c, ctx, k, time.Minute, func(context.Context) (*item, error) {
			return &item{Name: k}, nil
		})
		require.NoError(t, err)
	}
	require.NoError(t, c.Invalidate(ctx, "product:1"))
	require.NoError(t, c.InvalidatePrefix(ctx, "product:"))

	assert.False(t, mr.Exists("catalog:product:2"))
	assert.True(t, mr.Exists("catalog:gen:product:1"))
}
