package storage

import (
	"context"
	"io"
)

// Store persists uploaded resume documents and stages them for parsing.
type Store interface {
	// Upload writes the document and returns the stored object key.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
	// Fetch stages the stored object on local disk and returns its path.
	// cleanup removes any staging artifacts and is always safe to call.
	Fetch(ctx context.Context, storedPath string) (localPath string, cleanup func(), err error)
}
