package interfaces

import (
	"context"
	"io"
)

// FileStorage stores the content of submitted documents. Paths are opaque to callers.
type FileStorage interface {
	// Put writes the content and returns the storage path
	Put(ctx context.Context, path string, contentType string, r io.Reader) (int64, error)

	// Get opens a stored file for reading
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a stored file. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
