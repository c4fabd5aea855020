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

type specialty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, "clinic:", ttl), mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "specialties", []specialty{{ID: 1, Name: "Cardiología"}}))
	assert.True(t, mr.Exists("clinic:specialties"))

	var got []specialty
	found, err := c.GetJSON(ctx, "specialties", &got)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []specialty{{ID: 1, Name: "Cardiología"}}, got)
}

func TestRedisCache_MissIsNotAnError(t *testing.T) {
	c, _ := newCache(t, time.Minute)

	var got []specialty
	found, err := c.GetJSON(context.Background(), "absent", &got)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", 1))
	mr.FastForward(31 * time.Second)

	var got int
	found, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	require.NoError(t, mr.Set("clinic:k", "{not json"))

	var got []specialty
	_, err := c.GetJSON(context.Background(), "k", &got)
	assert.ErrorIs(t, err, ErrCodec)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", 1))
	require.NoError(t, c.SetJSON(ctx, "b", 2))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	assert.False(t, mr.Exists("clinic:a"))
	assert.False(t, mr.Exists("clinic:b"))
	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.Close()

	var got int
	_, err := c.GetJSON(context.Background(), "k", &got)
	assert.ErrorIs(t, err, ErrGet)
}
