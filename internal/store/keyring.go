package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "tarefas"

// KeyringStore implements BlobStore on the system keyring. Each key is one
// keyring item.
type KeyringStore struct {
	ring keyring.Keyring
}

// openKeyring returns a configured keyring instance. fileDir is used by the
// encrypted-file backend when no system keyring is available.
func openKeyring(fileDir string) (keyring.Keyring, error) {
	if fileDir == "" {
		fileDir = "~/.config/tarefas/keyring"
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("tarefas-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// NewKeyringStore opens the system keyring.
func NewKeyringStore(fileDir string) (*KeyringStore, error) {
	ring, err := openKeyring(fileDir)
	if err != nil {
		return nil, err
	}
	return &KeyringStore{ring: ring}, nil
}

// NewKeyringStoreWith wraps an already opened keyring.
func NewKeyringStoreWith(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// Get retrieves the value stored under key.
func (s *KeyringStore) Get(_ context.Context, key string) ([]byte, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting keyring item %q: %w", key, err)
	}
	return item.Data, nil
}

// Set stores value under key.
func (s *KeyringStore) Set(_ context.Context, key string, value []byte) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  value,
		Label: "tarefas " + key,
	})
	if err != nil {
		return fmt.Errorf("setting keyring item %q: %w", key, err)
	}
	return nil
}

// Delete removes key from the keyring.
func (s *KeyringStore) Delete(_ context.Context, key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting keyring item %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; keyring handles are not held open.
func (s *KeyringStore) Close() error { return nil }
