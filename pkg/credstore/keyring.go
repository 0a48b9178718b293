package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps the token in the operating system's secure storage
// (macOS Keychain, Secret Service on Linux, Windows Credential Manager).
type KeyringStore struct {
	service string
	key     string
}

// NewKeyringStore returns a store scoped to service, normally the application's
// identifier. The token is saved under DefaultKey.
func NewKeyringStore(service string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("credstore: keyring service name is required")
	}
	return &KeyringStore{service: service, key: DefaultKey}, nil
}

// Service returns the keyring service and key the token is stored under.
func (s *KeyringStore) Service() (service, key string) {
	return s.service, s.key
}

func (s *KeyringStore) Store(token string) error {
	if token == "" {
		return storageError("store", StatusInvalid, errors.New("token is empty"))
	}
	if err := keyring.Set(s.service, s.key, token); err != nil {
		return storageError("store", keyringStatus(err), err)
	}
	return nil
}

func (s *KeyringStore) Retrieve() (string, bool) {
	token, err := keyring.Get(s.service, s.key)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(s.service, s.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return storageError("delete", keyringStatus(err), err)
	}
	return nil
}

func keyringStatus(err error) int {
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, keyring.ErrSetDataTooBig):
		return StatusDataTooBig
	default:
		return StatusIO
	}
}

var _ Store = (*KeyringStore)(nil)
