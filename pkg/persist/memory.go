package persist

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend keeps values in process memory. It is used by tests and by
// the "memory" storage backend.
type MemoryBackend struct {
	mu     sync.RWMutex
	items  map[string]string
	writes int
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

func (m *MemoryBackend) GetText(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.items[key]
	return text, ok, nil
}

func (m *MemoryBackend) SetText(_ context.Context, key, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = text
	m.writes++
	return nil
}

func (m *MemoryBackend) DeleteItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]string)
	return nil
}

func (m *MemoryBackend) GetKeys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Close() error { return nil }

// Writes returns how many SetText calls succeeded.
func (m *MemoryBackend) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
