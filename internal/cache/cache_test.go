package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ListingCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, time.Minute), mr
}

func TestListingCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got []map[string]interface{}
	ok, err := c.Get(ctx, "parts", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []map[string]interface{}{{"_id": "a", "name": "Brake pad"}}
	require.NoError(t, c.Set(ctx, "parts", want))

	ok, err = c.Get(ctx, "parts", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Brake pad", got[0]["name"])
}

func TestListingCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "blogs", []string{"x"}))
	mr.FastForward(2 * time.Minute)

	var got []string
	ok, err := c.Get(ctx, "blogs", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListingCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "parts", []string{"a"}))
	require.NoError(t, c.Set(ctx, "parts:3", []string{"a"}))
	require.NoError(t, c.Invalidate(ctx, "parts", "parts:3"))

	assert.False(t, mr.Exists(keyPrefix+"parts"))
	assert.False(t, mr.Exists(keyPrefix+"parts:3"))
	assert.NoError(t, c.Invalidate(ctx))
}
