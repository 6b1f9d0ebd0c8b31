package kvs

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
// Data is volatile and will be lost when the process exits, which makes it
// suitable for tests and for running against a backend without persisting
// any local state.
type MemoryStore struct {
	prefix string
	items  map[string][]byte
	mu     sync.RWMutex
	closed bool
}

// NewMemoryStore creates a new in-memory KVS store.
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{
		prefix: prefix,
		items:  make(map[string][]byte),
	}
}

// prefixedKey returns the key with prefix prepended.
func (m *MemoryStore) prefixedKey(key string) string {
	if m.prefix == "" {
		return key
	}
	return m.prefix + key
}

// Get retrieves a value by key.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	value, exists := m.items[m.prefixedKey(key)]
	if !exists {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external modifications
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a value, overwriting any previous value.
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	// Keep a copy so later caller mutations don't leak into the store
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.items[m.prefixedKey(key)] = valueCopy
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.items, m.prefixedKey(key))
	return nil
}

// Exists checks if a key exists.
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrClosed
	}

	_, exists := m.items[m.prefixedKey(key)]
	return exists, nil
}

// Close closes the store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true
	m.items = nil
	return nil
}
