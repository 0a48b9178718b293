package credstore

import (
	"errors"
	"sync"
)

// MemoryStore keeps the token for the lifetime of the process only.
// It is useful for tests and for hosts that must not persist credentials.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Store(token string) error {
	if token == "" {
		return storageError("store", StatusInvalid, errors.New("token is empty"))
	}
	s.mu.Lock()
	s.token, s.set = token, true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Retrieve() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	s.token, s.set = "", false
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
