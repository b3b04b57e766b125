package blob

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeStoreRoundTrip(t *testing.T) {
	store := NewFakeStore()
	ctx := context.Background()

	url, err := store.Upload(ctx, "posts/a1b2c3d4.webp", bytes.NewReader([]byte("img")), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/posts/a1b2c3d4.webp", url)
	assert.True(t, store.Has("posts/a1b2c3d4.webp"))
	assert.Equal(t, []byte("img"), store.Object("posts/a1b2c3d4.webp"))

	require.NoError(t, store.Delete(ctx, "posts/a1b2c3d4.webp"))
	assert.False(t, store.Has("posts/a1b2c3d4.webp"))
}

func TestFakeStoreFailureInjection(t *testing.T) {
	store := NewFakeStore()
	store.FailUpload = errors.New("store unavailable")

	_, err := store.Upload(context.Background(), "k", bytes.NewReader(nil), "image/webp")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}
