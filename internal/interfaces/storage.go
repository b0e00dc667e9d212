// Package interfaces defines service contracts for Folio
package interfaces

import "context"

// BlobStore reads and writes opaque blobs by key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// SeriesSource produces the raw portfolio returns CSV text.
type SeriesSource interface {
	// Name identifies the source in logs and responses (path or URL).
	Name() string

	// Fetch performs a single read. Implementations do not retry.
	Fetch(ctx context.Context) (string, error)
}
