package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "healthhub-cli"
)

// KeyringStore persists values in the OS keychain/credential manager,
// namespaced by server origin
type KeyringStore struct {
	origin string
}

// NewKeyringStore creates a KeyringStore for the given server origin
func NewKeyringStore(origin string) *KeyringStore {
	return &KeyringStore{origin: origin}
}

// keyringKey returns a unique key per server and storage key
func (k *KeyringStore) keyringKey(key string) string {
	return fmt.Sprintf("%s-%s", key, k.origin)
}

func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(service, k.keyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

func (k *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(service, k.keyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) Remove(key string) error {
	if err := keyring.Delete(service, k.keyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
