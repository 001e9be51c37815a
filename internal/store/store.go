// Package store persists the last observed snapshot as opaque JSON
// keyed by a stable identifier. Implementations are boundary
// adapters; the pipeline treats their contents as bytes.
package store

import (
	"context"
	"errors"
)

// ErrNotFound means no snapshot has been stored under the key yet.
// Callers degrade to an empty snapshot so a fresh deployment can
// bootstrap.
var ErrNotFound = errors.New("snapshot not found")

// Store reads and writes the persisted snapshot. Write replaces the
// value whole; there is no partial update.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}
