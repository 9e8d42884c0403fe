package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage stores opaque blobs and hands back references. The engine
// never interprets the bytes; it only keeps the returned path.
type FileStorage interface {
	// Upload stores a blob and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}
