package storage

import (
	"strings"
	"sync"
)

// KV is the ephemeral tier: a flat, synchronous key/value store for small
// values such as the session token and the cached user profile. Errors are
// explicit so callers decide fallback policy instead of having failures
// swallowed behind defaults.
type KV interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, bool, error)
	Remove(key string) error
	Keys(prefix string) ([]string, error)
}

// MemoryKV implements KV with a mutex-guarded map. The zero value is not
// usable; construct with NewMemoryKV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKV creates an empty in-memory key/value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy so callers cannot mutate stored state through the slice.
	buf := make([]byte, len(value))
	copy(buf, value)
	m.values[key] = buf
	return nil
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}

	buf := make([]byte, len(value))
	copy(buf, value)
	return buf, true, nil
}

func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
