package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/spf13/afero"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/store"
	"github.com/nhle/tarefas/tests/testutil"
)

// backends returns one instance of every BlobStore implementation, each
// backed by test-local state.
func backends(t *testing.T) map[string]store.BlobStore {
	t.Helper()

	fileStore, err := store.NewFileStoreFs(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("creating file store: %v", err)
	}

	return map[string]store.BlobStore{
		"sqlite":  testutil.NewTestStore(t),
		"file":    fileStore,
		"keyring": store.NewKeyringStoreWith(keyring.NewArrayKeyring(nil)),
	}
}

func TestBlobStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, model.DefaultStorageKey, []byte(`[1]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := s.Get(ctx, model.DefaultStorageKey)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `[1]` {
				t.Errorf("Get = %q, want %q", got, `[1]`)
			}

			// Overwrite replaces the whole value.
			if err := s.Set(ctx, model.DefaultStorageKey, []byte(`[]`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err = s.Get(ctx, model.DefaultStorageKey)
			if err != nil {
				t.Fatalf("Get after overwrite: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("Get after overwrite = %q, want %q", got, `[]`)
			}

			if err := s.Delete(ctx, model.DefaultStorageKey); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, model.DefaultStorageKey); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
			}

			// Deleting again is not an error.
			if err := s.Delete(ctx, model.DefaultStorageKey); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestSQLiteStoreMigrations(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("schema version = %d, want 1", v)
	}
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "tarefas.db")

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Set(ctx, "theme", []byte("dark")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "dark" {
		t.Errorf("Get = %q, want dark", got)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "theme" {
		t.Errorf("Keys = %v, want [theme]", keys)
	}
}

func TestFileStoreKeyMapping(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := store.NewFileStoreFs(fs, "/data")
	if err != nil {
		t.Fatalf("NewFileStoreFs: %v", err)
	}

	if err := s.Set(context.Background(), "tarefas-app:tarefas", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ok, err := afero.Exists(fs, "/data/tarefas-app_tarefas.json")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("expected value file /data/tarefas-app_tarefas.json")
	}
	if ok, _ := afero.Exists(fs, "/data/tarefas-app_tarefas.json.tmp"); ok {
		t.Error("temporary file left behind")
	}
}

func TestFileStoreRequiresDir(t *testing.T) {
	if _, err := store.NewFileStoreFs(afero.NewMemMapFs(), "  "); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := store.Open(model.StorageConfig{Backend: "indexeddb"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpenFileBackend(t *testing.T) {
	s, err := store.Open(model.StorageConfig{Backend: model.BackendFile, Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*store.FileStore); !ok {
		t.Errorf("Open returned %T, want *store.FileStore", s)
	}
}
