package storage

import (
	"fmt"
	"sync"
)

// MemoryBackend is an in-process Backend. It backs tests and the
// degraded "storage unavailable" session where edits live only in memory.
// Thread-safe for concurrent access from WASM callbacks.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string

	// quota is the maximum total stored bytes (keys + values).
	// Zero means unlimited.
	quota int

	// broken makes every operation fail with ErrUnavailable.
	broken bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// SetQuota caps total stored bytes. Used to simulate host quota limits.
func (m *MemoryBackend) SetQuota(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = n
}

// SetBroken toggles total failure. Used to simulate disabled storage.
func (m *MemoryBackend) SetBroken(broken bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broken = broken
}

// Get returns the value at key.
func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.broken {
		return "", false, fmt.Errorf("get %s: %w", key, ErrUnavailable)
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set writes value under key, enforcing the configured quota.
func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.broken {
		return fmt.Errorf("set %s: %w", key, ErrUnavailable)
	}
	if m.quota > 0 {
		total := len(key) + len(value)
		for k, v := range m.values {
			if k == key {
				continue
			}
			total += len(k) + len(v)
		}
		if total > m.quota {
			return fmt.Errorf("set %s: %w", key, ErrQuotaExceeded)
		}
	}
	m.values[key] = value
	return nil
}

// Remove deletes the value at key.
func (m *MemoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.broken {
		return fmt.Errorf("remove %s: %w", key, ErrUnavailable)
	}
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
