package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestClient_SetGetDelete(t *testing.T) {
	srv := miniredis.RunT(t)
	client := New(srv.Addr(), "", 0)
	ctx := context.Background()

	assert.NoError(t, client.Set(ctx, "key", []byte("value"), time.Minute))

	got, err := client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	assert.NoError(t, client.Delete(ctx, "key"))

	got, err = client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_GetMissingKey(t *testing.T) {
	srv := miniredis.RunT(t)
	client := New(srv.Addr(), "", 0)

	got, err := client.Get(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

// Redis going away must look like a cache miss, never an error.
func TestClient_FailsSafeWhenRedisDown(t *testing.T) {
	srv := miniredis.RunT(t)
	client := New(srv.Addr(), "", 0)
	srv.Close()

	ctx := context.Background()
	assert.NoError(t, client.Set(ctx, "key", []byte("value"), time.Minute))

	got, err := client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, client.Delete(ctx, "key"))
}

func TestClient_NilClientIsSafe(t *testing.T) {
	var client *Client
	ctx := context.Background()

	got, err := client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, client.Set(ctx, "key", []byte("value"), time.Minute))
	assert.NoError(t, client.Delete(ctx, "key"))
}
