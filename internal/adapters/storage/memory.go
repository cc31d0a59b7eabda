package storage

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned when a write would grow the storage past its quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// MemoryStorage is a map-backed LocalStorage. Its contents live as long as the value does.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
	quota int
	used  int
}

// NewMemoryStorage returns an empty MemoryStorage. A positive quota caps the
// total bytes of keys and values.
func NewMemoryStorage(quota int) *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string]string),
		quota: quota,
	}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	used := m.used
	if old, ok := m.items[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.items[key] = value
	m.used = used
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}
