package service

import (
	"context"
	"testing"

	"spotshare/internal/cache"
	"spotshare/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPosts() []*models.Post {
	return []*models.Post{
		{
			ID:     "p2",
			UserID: 2,
			Title:  "Second",
			User:   models.User{ID: 2, Username: "bo", Avatar: "https://blobs.test/avatars/2.webp"},
		},
		{
			ID:     "p1",
			UserID: 1,
			Title:  "First",
			User:   models.User{ID: 1, Username: "ana"},
		},
	}
}

func TestGetFeedBuildsEntries(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
		assert.Equal(t, uint(7), currentUserID)
		return feedPosts(), nil
	}
	svc := NewFeedService(posts)

	entries, err := svc.GetFeed(context.Background(), 20, 0, 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "p2", entries[0].ID)
	assert.Equal(t, "bo", entries[0].OwnerUsername)
	assert.Equal(t, "https://blobs.test/avatars/2.webp", entries[0].OwnerAvatar)
	// Owner travels in the flattened fields only
	assert.Zero(t, entries[0].User.ID)
}

func TestGetFeedAnonymousFirstPageIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer cache.SetClient(nil)

	repoHits := 0
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) {
		repoHits++
		return feedPosts(), nil
	}
	svc := NewFeedService(posts)
	ctx := context.Background()

	first, err := svc.GetFeed(ctx, 20, 0, 0)
	require.NoError(t, err)
	second, err := svc.GetFeed(ctx, 20, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, repoHits)
	assert.Equal(t, first, second)

	// Later pages and authenticated reads go to the repository
	_, err = svc.GetFeed(ctx, 20, 20, 0)
	require.NoError(t, err)
	_, err = svc.GetFeed(ctx, 20, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, repoHits)
}

func TestGetMapFeedUsesCoordinateListing(t *testing.T) {
	called := false
	posts := noopPostRepo()
	posts.listWithCoordFn = func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) {
		called = true
		return feedPosts()[:1], nil
	}
	svc := NewFeedService(posts)

	entries, err := svc.GetMapFeed(context.Background(), 50, 0, 7)
	require.NoError(t, err)
	assert.True(t, called)
	require.Len(t, entries, 1)
	assert.Equal(t, "p2", entries[0].ID)
}
