package kvs

import "context"

// NamespacedStore wraps a Store and prepends a prefix to all keys.
// This allows multiple logical stores (session state, profile state) to
// share a single physical KVS backend while maintaining isolation.
//
// Example:
//
//	base, _ := kvs.New(kvs.Config{Type: "leveldb"})
//	sessionStore := kvs.NewNamespacedStore(base, "session:")
//	profileStore := kvs.NewNamespacedStore(base, "profile:")
type NamespacedStore struct {
	store  Store
	prefix string
}

// NewNamespacedStore creates a new namespaced store wrapper.
// If prefix is empty, it returns the underlying store as-is.
func NewNamespacedStore(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &NamespacedStore{
		store:  store,
		prefix: prefix,
	}
}

func (n *NamespacedStore) prefixKey(key string) string {
	return n.prefix + key
}

// Get retrieves a value by key (with prefix prepended).
func (n *NamespacedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.prefixKey(key))
}

// Set stores a value (with prefix prepended).
func (n *NamespacedStore) Set(ctx context.Context, key string, value []byte) error {
	return n.store.Set(ctx, n.prefixKey(key), value)
}

// Delete removes a key (with prefix prepended).
func (n *NamespacedStore) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefixKey(key))
}

// Exists checks if a key exists (with prefix prepended).
func (n *NamespacedStore) Exists(ctx context.Context, key string) (bool, error) {
	return n.store.Exists(ctx, n.prefixKey(key))
}

// Close closes the underlying store.
//
// IMPORTANT: if multiple NamespacedStore instances share the same underlying
// store, closing one closes the store for all. Typically, only call Close()
// on the base store itself, not on the namespaced wrappers.
func (n *NamespacedStore) Close() error {
	return n.store.Close()
}
