package settings

import "sync"

// MemoryStore implements Store in memory. Used in tests and when no data
// directory is configured; durable semantics then last for the process.
type MemoryStore struct {
	mu sync.Mutex
	s  durableSettings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored settings.
func (m *MemoryStore) Load() (durableSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

// Save replaces the stored settings.
func (m *MemoryStore) Save(s durableSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}
