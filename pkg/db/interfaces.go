package db

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Storage.Get when a key has never been written
	ErrNotFound = errors.New("key not found")
	// ErrStaleWrite is returned by DB.Save when the document changed since it was loaded
	ErrStaleWrite = errors.New("document was modified since it was loaded")
)

// UpdateFunc receives the currently stored value (nil when absent) and returns
// the value to store. Returning an error aborts the update.
type UpdateFunc func(current []byte) ([]byte, error)

// Storage defines a key/value store of opaque byte values.
// MemoryStorage, filestore.Store and postgres.DB implement this interface.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Update runs fn and stores its result atomically with respect to other
	// updates of the same key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Delete(ctx context.Context, key string) error
}

// Watcher reports writes to keys made by other processes.
// Watch blocks until ctx is done or the underlying watch fails.
type Watcher interface {
	Watch(ctx context.Context, onChange func(key string)) error
}
