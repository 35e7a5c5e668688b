package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestClient_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	mr.Close()
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.Nil(t, got)

	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
}

func TestClient_Nil(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.Error(t, c.Ping(ctx))
	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "k", nil, time.Second))
	assert.NoError(t, c.Delete(ctx, "k"))
}
