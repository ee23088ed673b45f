package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	for _, addr := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		client, err := NewRedisClient(ctx, addr)
		require.NoError(t, err, addr)
		require.NotNil(t, client)

		require.NoError(t, client.Set(ctx, "k", addr, 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, addr, got)
		_ = client.Close()
	}
}

func TestNewRedisClient_Empty(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "  ")
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := NewRedisClient(context.Background(), addr)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://localhost:notaport")
	assert.Error(t, err)
}
