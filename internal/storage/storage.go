// Package storage abstracts where uploaded vehicle images live. The
// router picks a backend at startup based on storage.type.
package storage

import (
	"context"
	"io"
)

type Store interface {
	// Save writes the object under key. Keys are generated fresh per
	// upload, so Save never overwrites a live object.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the address clients can fetch the object from.
	URL(key string) string
}
