package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideMissThenHit(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *[]string) func() error {
		return func() error {
			fetches++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var got []string
	err := Aside(ctx, "feed:first", &got, time.Minute, fetch(&got))
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, fetches)

	// Second call is served from the cache, fetch not invoked again
	var again []string
	err = Aside(ctx, "feed:first", &again, time.Minute, fetch(&again))
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
	assert.Equal(t, 1, fetches)
}

func TestAsideFetchError(t *testing.T) {
	setupTestRedis(t)

	var dest []string
	err := Aside(context.Background(), "feed:first", &dest, time.Minute, func() error {
		return errors.New("db down")
	})
	assert.Error(t, err)
}

func TestAsideWithoutRedisIsPassthrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var dest int
	for i := 0; i < 2; i++ {
		err := Aside(context.Background(), "post:abc", &dest, time.Minute, func() error {
			fetches++
			dest = 7
			return nil
		})
		assert.NoError(t, err)
	}
	assert.Equal(t, 7, dest)
	assert.Equal(t, 2, fetches)
}

// A degraded Redis must not take reads down with it: a failing GET is treated
// as a miss and the loader still runs.
func TestAsideFallsThroughOnCacheError(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	// Corrupt entry: unmarshal fails, fetch serves the read
	require.NoError(t, mr.Set("user:1", "{not json"))

	fetches := 0
	var dest int
	err := Aside(ctx, "user:1", &dest, time.Minute, func() error {
		fetches++
		dest = 7
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, dest)
	assert.Equal(t, 1, fetches)

	// Dead connection: GET errors, fetch still serves the read
	mr.Close()
	var other int
	err = Aside(ctx, "post:abc", &other, time.Minute, func() error {
		fetches++
		other = 9
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 9, other)
	assert.Equal(t, 2, fetches)
}

func TestInvalidatePostClearsFeedKeys(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey("ab12cd34"), "post", time.Minute))
	require.NoError(t, SetJSON(ctx, FeedFirstPageKey, "feed", time.Minute))
	require.NoError(t, SetJSON(ctx, MapFeedKey, "map", time.Minute))

	InvalidatePost(ctx, "ab12cd34")

	var s string
	found, err := GetJSON(ctx, PostKey("ab12cd34"), &s)
	assert.NoError(t, err)
	assert.False(t, found)
	found, err = GetJSON(ctx, FeedFirstPageKey, &s)
	assert.NoError(t, err)
	assert.False(t, found)
	found, err = GetJSON(ctx, MapFeedKey, &s)
	assert.NoError(t, err)
	assert.False(t, found)
}
