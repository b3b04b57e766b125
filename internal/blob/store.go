// Package blob provides object storage for uploaded images.
package blob

import (
	"context"
	"io"
)

// Store abstracts the S3-compatible object store holding post images and
// avatars. Upload returns the durable public URL for the stored object.
type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
