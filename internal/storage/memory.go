package storage

import (
	"context"
	"sync"
)

// MemoryStore implements ObjectStore in memory. It backs tests and redis-less
// local development.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "mem://bucket"
	}
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: baseURL,
	}
}

// Put stores data under key.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	m.objects[key] = copied
	return m.PublicURL(key), nil
}

// Delete removes the object under key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// PublicURL returns the public URL for key.
func (m *MemoryStore) PublicURL(key string) string {
	return m.baseURL + "/" + key
}

// Has reports whether an object exists under key.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
