package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileStore implements BlobStore with one JSON file per key inside a data
// directory. Writes go through a temporary file and a rename so a crash
// never leaves a half-written value behind.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore returns a FileStore rooted at dir on the OS filesystem.
func NewFileStore(dir string) (*FileStore, error) {
	return NewFileStoreFs(afero.NewOsFs(), dir)
}

// NewFileStoreFs returns a FileStore rooted at dir on fs.
func NewFileStoreFs(fs afero.Fs, dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file store directory is empty")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// path maps a key to its file. Characters that are awkward in file names
// (":" and path separators) become underscores.
func (s *FileStore) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(s.dir, name+".json")
}

// Get returns the value stored under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	b, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return b, nil
}

// Set writes value under key, replacing the previous file.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	p := s.path(key)
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replacing key %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error { return nil }
