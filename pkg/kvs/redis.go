package kvs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-based implementation of Store.
// It is the shared backend for deployments where several worker processes
// serve the same account, so local state must live off-box.
// Namespace isolation is implemented using key prefixes ("namespace:key").
type RedisStore struct {
	namespace string // Stored as "namespace:" prefix for Redis keys
	client    *redis.Client
	closed    bool
	mu        sync.RWMutex
}

// NewRedisStore creates a new Redis KVS store for the given namespace.
func NewRedisStore(namespace string, cfg RedisConfig) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("kvs/redis: failed to connect to %s: %w", cfg.Addr, err)
	}

	prefix := ""
	if namespace != "" {
		prefix = namespace + ":"
	}

	return &RedisStore{
		namespace: prefix,
		client:    client,
	}, nil
}

// prefixedKey returns the key with namespace prefix prepended.
func (r *RedisStore) prefixedKey(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + key
}

// Get retrieves a value by key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrClosed
	}
	r.mu.RUnlock()

	result, err := r.client.Get(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kvs/redis: get failed: %w", err)
	}

	return result, nil
}

// Set stores a value, overwriting any previous value.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return ErrClosed
	}
	r.mu.RUnlock()

	if err := r.client.Set(ctx, r.prefixedKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kvs/redis: set failed: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return ErrClosed
	}
	r.mu.RUnlock()

	if err := r.client.Del(ctx, r.prefixedKey(key)).Err(); err != nil {
		return fmt.Errorf("kvs/redis: delete failed: %w", err)
	}
	return nil
}

// Exists checks if a key exists.
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return false, ErrClosed
	}
	r.mu.RUnlock()

	count, err := r.client.Exists(ctx, r.prefixedKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("kvs/redis: exists check failed: %w", err)
	}
	return count > 0, nil
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("kvs/redis: close failed: %w", err)
	}
	return nil
}
