package testutil

import (
	"context"
	"sync"

	"gallery-go/internal/gallery"
)

// MemoryKeyValueStore is a map-backed KeyValueStore. If Err is set every
// call fails with it.
type MemoryKeyValueStore struct {
	Err error

	mu   sync.Mutex
	data map[string]string
	sets int
}

func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{data: make(map[string]string)}
}

func (s *MemoryKeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", false, s.Err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryKeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.data[key] = value
	s.sets++
	return nil
}

func (s *MemoryKeyValueStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.data, key)
	return nil
}

func (s *MemoryKeyValueStore) Close() error { return nil }

// Sets returns how many successful Set calls were made.
func (s *MemoryKeyValueStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

var _ gallery.KeyValueStore = (*MemoryKeyValueStore)(nil)
