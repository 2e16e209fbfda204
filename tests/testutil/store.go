package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/nhle/tarefas/internal/store"
)

// ErrBroken is returned by every FailingStore operation.
var ErrBroken = errors.New("storage broken")

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewMemStore returns a FileStore over an in-memory filesystem.
func NewMemStore(t *testing.T) *store.FileStore {
	t.Helper()

	s, err := store.NewFileStoreFs(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("creating memory store: %v", err)
	}
	return s
}

// FailingStore is a BlobStore whose reads and writes always fail.
type FailingStore struct{}

func (FailingStore) Get(context.Context, string) ([]byte, error) { return nil, ErrBroken }
func (FailingStore) Set(context.Context, string, []byte) error   { return ErrBroken }
func (FailingStore) Delete(context.Context, string) error        { return ErrBroken }
func (FailingStore) Close() error                                { return nil }
