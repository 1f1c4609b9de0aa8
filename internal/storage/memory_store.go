package storage

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/julianstephens/focos/internal/errors"
)

// MemoryStore keeps everything in a map. It backs tests and the
// `--db :memory:` mode, where nothing survives the process.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	failOn map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, apperrors.ErrNotFound)
	}
	return v, nil
}

func (s *MemoryStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

func (s *MemoryStore) SetMany(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range entries {
		if err, ok := s.failOn[key]; ok {
			return fmt.Errorf("set %q: %w", key, err)
		}
	}
	for key, value := range entries {
		s.data[key] = value
	}
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return MemoryDSN
}

// FailWrites makes every later write touching key fail with err. Passing a
// nil err clears the failure.
func (s *MemoryStore) FailWrites(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == nil {
		s.failOn = make(map[string]error)
	}
	if err == nil {
		delete(s.failOn, key)
		return
	}
	s.failOn[key] = err
}
