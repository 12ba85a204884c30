package chain

import "sync"

// Store is the durable key/value backing for contract state. The chain
// owns the interface; implementations are the in-memory map below and the
// SQLite store in sqlite.go.
//
// Get returns nil (and no error) for a key that was never written.
type Store interface {
	Get(key string) (*string, error)
	Set(key, value string) error
	Close() error
}

// MemStore keeps state in memory. It is the default for tests and for
// devnets that do not need persistence across restarts.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (s *MemStore) Get(key string) (*string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemStore) Close() error { return nil }
