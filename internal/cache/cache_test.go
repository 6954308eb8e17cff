package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestClientRoundTripJSON(t *testing.T) {
	redis := miniredis.RunT(t)
	c := New(redis.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	assert.True(t, c.GetJSON(ctx, "k", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, c.GetJSON(ctx, "k", &got))
}

func TestClientExpiresKeys(t *testing.T) {
	redis := miniredis.RunT(t)
	c := New(redis.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Second))
	redis.FastForward(2 * time.Second)

	data, err := c.Get(ctx, "short")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestClientFailsSafeWhenRedisDown(t *testing.T) {
	redis := miniredis.RunT(t)
	c := New(redis.Addr(), "", 0)
	redis.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Error(t, c.Ping(ctx))
}

func TestNilClientIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Close())
}

func TestClientIncr(t *testing.T) {
	redis := miniredis.RunT(t)
	c := New(redis.Addr(), "", 0)
	ctx := context.Background()

	n, err := c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var nilClient *Client
	_, err = nilClient.Incr(ctx, "gen")
	assert.Error(t, err)
}
