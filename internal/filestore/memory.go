package filestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gallery-go/internal/gallery"
)

// MemoryStore is an in-memory implementation of gallery.FileStore.
// Files in the data directory are addressed by name or by the
// "memory://<store>/<name>" URI returned from WriteFile. Unscoped paths live
// in a separate namespace, which Put seeds for tests.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	name     string
	data     map[string][]byte // name -> content
	external map[string][]byte // unscoped path -> content
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory file store with the given name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:     name,
		data:     make(map[string][]byte),
		external: make(map[string][]byte),
	}
}

func (m *MemoryStore) uriPrefix() string {
	return "memory://" + m.name + "/"
}

// bucket returns the namespace and key for path within dir.
func (m *MemoryStore) bucket(path string, dir gallery.Directory) (map[string][]byte, string) {
	if key, ok := strings.CutPrefix(path, m.uriPrefix()); ok {
		return m.data, key
	}
	if dir == gallery.DirectoryData {
		return m.data, path
	}
	return m.external, path
}

// Put stores raw content at an unscoped path, as a camera writing to disk would.
func (m *MemoryStore) Put(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.external[path] = append([]byte(nil), content...)
}

// Names returns the sorted names of all files in the data directory.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.data))
	for n := range m.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteFile stores decoded data under name.
func (m *MemoryStore) WriteFile(_ context.Context, name string, data string, dir gallery.Directory) (string, error) {
	content, err := gallery.DecodeFileData(data)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, key := m.bucket(name, dir)
	b[key] = content
	if dir == gallery.DirectoryData {
		return m.uriPrefix() + key, nil
	}
	return key, nil
}

// ReadFile returns the base64 content at path.
func (m *MemoryStore) ReadFile(_ context.Context, path string, dir gallery.Directory) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, key := m.bucket(path, dir)
	content, ok := b[key]
	if !ok {
		return "", fmt.Errorf("file %s: %w", path, gallery.ErrNotFound)
	}
	return gallery.EncodeFileData(content), nil
}

// DeleteFile removes the named file.
func (m *MemoryStore) DeleteFile(_ context.Context, name string, dir gallery.Directory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, key := m.bucket(name, dir)
	if _, ok := b[key]; !ok {
		return fmt.Errorf("file %s: %w", name, gallery.ErrNotFound)
	}
	delete(b, key)
	return nil
}

// Compile-time check that MemoryStore implements gallery.FileStore interface
var _ gallery.FileStore = (*MemoryStore)(nil)
