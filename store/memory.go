// store/memory.go
package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore holds collections as marshaled JSON in a map. Used in tests
// and for throwaway runs; round-tripping through JSON keeps its behavior
// identical to the file backend.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) ReadAll(_ context.Context, collection string, out any) error {
	s.mu.RLock()
	b, ok := s.data[collection]
	s.mu.RUnlock()
	if !ok {
		b = []byte("[]")
	}
	return json.Unmarshal(b, out)
}

func (s *MemoryStore) WriteAll(_ context.Context, collection string, list any) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[collection] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
