package repository

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

func setupTestCache(t *testing.T) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
}

func TestLikeRepository_LikeIncrementsCounter(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, "a1b2c3d4", owner, 51.5, -0.12)

	inserted, err := likes.Like(ctx, liker.ID, post.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 1, got.LikeCount)

	liked, err := likes.IsLiked(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikeRepository_LikeIsIdempotent(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, "a1b2c3d4", owner, 0, 0)

	inserted, err := likes.Like(ctx, liker.ID, post.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Second like is a no-op: no new row, counter untouched
	inserted, err = likes.Like(ctx, liker.ID, post.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 1, got.LikeCount)

	count, err := likes.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLikeRepository_UnlikeRestoresState(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, "a1b2c3d4", owner, 0, 0)

	_, err := likes.Like(ctx, liker.ID, post.ID, owner.ID)
	require.NoError(t, err)

	deleted, err := likes.Unlike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 0, got.LikeCount)

	liked, err := likes.IsLiked(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	rows, err := likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLikeRepository_UnlikeWithoutLike(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	post := createTestPost(t, db, "a1b2c3d4", owner, 0, 0)

	deleted, err := likes.Unlike(ctx, stranger.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Counter never drops below zero
	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 0, got.LikeCount)
}

// Unliking one of two posts with the same owner must remove exactly that
// post's pair. An earlier parallel-array encoding of the relation removed
// pairs by owner match, which could drop the wrong entry.
func TestLikeRepository_UnlikeSameOwnerKeepsOtherPair(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	liker := createTestUser(t, db, "liker")
	p1 := createTestPost(t, db, "aaaa1111", owner, 0, 0)
	p2 := createTestPost(t, db, "bbbb2222", owner, 0, 0)

	_, err := likes.Like(ctx, liker.ID, p1.ID, owner.ID)
	require.NoError(t, err)
	_, err = likes.Like(ctx, liker.ID, p2.ID, owner.ID)
	require.NoError(t, err)

	deleted, err := likes.Unlike(ctx, liker.ID, p2.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	rows, err := likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p1.ID, rows[0].PostID)
	assert.Equal(t, owner.ID, rows[0].OwnerID)

	liked, err := likes.IsLiked(ctx, liker.ID, p1.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikeRepository_ListByUserInsertionOrder(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	ownerA := createTestUser(t, db, "ownera")
	ownerB := createTestUser(t, db, "ownerb")
	liker := createTestUser(t, db, "liker")
	p1 := createTestPost(t, db, "aaaa1111", ownerA, 0, 0)
	p2 := createTestPost(t, db, "bbbb2222", ownerB, 0, 0)
	p3 := createTestPost(t, db, "cccc3333", ownerA, 0, 0)

	for _, p := range []*models.Post{p2, p1, p3} {
		_, err := likes.Like(ctx, liker.ID, p.ID, p.UserID)
		require.NoError(t, err)
	}

	rows, err := likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Insertion order, and each row carries its own owner
	assert.Equal(t, []string{p2.ID, p1.ID, p3.ID}, []string{rows[0].PostID, rows[1].PostID, rows[2].PostID})
	assert.Equal(t, []uint{ownerB.ID, ownerA.ID, ownerA.ID}, []uint{rows[0].OwnerID, rows[1].OwnerID, rows[2].OwnerID})
}

func TestLikeRepository_ListByUserCachedAndInvalidated(t *testing.T) {
	db := setupSQLiteDB(t)
	setupTestCache(t)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	liker := createTestUser(t, db, "liker")
	p1 := createTestPost(t, db, "aaaa1111", owner, 0, 0)
	p2 := createTestPost(t, db, "bbbb2222", owner, 0, 0)

	_, err := likes.Like(ctx, liker.ID, p1.ID, owner.ID)
	require.NoError(t, err)

	rows, err := likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// A row written behind the repository's back stays invisible: the second
	// read is served from the cache.
	require.NoError(t, db.Create(&models.Like{UserID: liker.ID, PostID: p2.ID, OwnerID: owner.ID}).Error)
	rows, err = likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Unlike drops the cached list, so the next read sees current state
	_, err = likes.Unlike(ctx, liker.ID, p1.ID)
	require.NoError(t, err)
	rows, err = likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p2.ID, rows[0].PostID)

	// Like invalidates too
	_, err = likes.Like(ctx, liker.ID, p1.ID, owner.ID)
	require.NoError(t, err)
	rows, err = likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLikeRepository_DanglingLikesSurviveDelete(t *testing.T) {
	db := setupSQLiteDB(t)
	likes := NewLikeRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, "a1b2c3d4", owner, 0, 0)

	_, err := likes.Like(ctx, liker.ID, post.ID, owner.ID)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, post.ID))

	// Deleting the post does not cascade to like rows
	rows, err := likes.ListByUser(ctx, liker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// but resolving the rows to posts filters the dangling entry silently
	resolved, err := posts.GetByIDs(ctx, []string{post.ID}, liker.ID)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
