package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/tarefas/internal/model"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// BlobStore is a keyed slot store that reads and writes whole values.
// It has no query capability; the task list is one value under one key.
type BlobStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Open builds the backend selected by cfg.Backend.
func Open(cfg model.StorageConfig) (BlobStore, error) {
	switch cfg.Backend {
	case model.BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case model.BackendFile:
		return NewFileStore(cfg.Path)
	case model.BackendKeyring:
		return NewKeyringStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
