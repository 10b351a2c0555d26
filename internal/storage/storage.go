// Package storage defines the blob-store port for media uploads. The port is
// injected into the media service; blob writes are not transactional with
// metadata writes, so callers compensate on partial failure.
package storage

import (
	"context"
	"io"
)

// BlobStore stores and removes media blobs.
type BlobStore interface {
	// Upload streams data to the given path and returns a public URL.
	Upload(ctx context.Context, path, contentType string, data io.Reader) (string, error)
	// Delete removes the blob. A failure here must be surfaced to the
	// caller, not swallowed, so metadata and blobs cannot silently diverge.
	Delete(ctx context.Context, path string) error
	// PublicURL returns the URL a stored blob is served from.
	PublicURL(path string) string
}
