// store/file.go
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each collection as a pretty-printed JSON file under dir,
// with the raw bytes cached in memory after the first read. The mutex only
// guards the cache map; it does not serialize logical operations.
type FileStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string][]byte
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, cache: make(map[string][]byte)}, nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) ReadAll(_ context.Context, collection string, out any) error {
	s.mu.RLock()
	b, ok := s.cache[collection]
	s.mu.RUnlock()
	if !ok {
		var err error
		b, err = os.ReadFile(s.path(collection))
		if err != nil {
			// 缺文件当空集合
			b = []byte("[]")
		}
		s.mu.Lock()
		s.cache[collection] = b
		s.mu.Unlock()
	}
	return json.Unmarshal(b, out)
}

func (s *FileStore) WriteAll(_ context.Context, collection string, list any) error {
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(collection), b, 0o644); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[collection] = b
	s.mu.Unlock()
	return nil
}

func (s *FileStore) Close(context.Context) error { return nil }
