package kvs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore is a LevelDB-based implementation of Store.
// It is the durable single-user backend: local session and profile state
// written here survives process restarts, the way browser local storage
// survives page reloads.
type LevelDBStore struct {
	prefix string
	db     *leveldb.DB
	closed bool
	mu     sync.RWMutex
}

// NewLevelDBStore creates a new LevelDB KVS store.
func NewLevelDBStore(prefix string, cfg LevelDBConfig) (*LevelDBStore, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		// Use the OS cache directory if no path specified
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = os.TempDir()
		}

		dirName := "brickedup"
		if prefix != "" {
			// Sanitize prefix for use in directory name
			sanitized := strings.Map(func(r rune) rune {
				if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
					return r
				}
				return '-'
			}, prefix)
			dirName = fmt.Sprintf("%s-%s", dirName, sanitized)
		}

		dbPath = filepath.Join(cacheDir, dirName)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("kvs/leveldb: failed to create directory: %w", err)
	}

	opts := &opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.SnappyCompression,
	}
	if cfg.SyncWrites {
		opts.NoSync = false
	}

	db, err := leveldb.OpenFile(dbPath, opts)
	if err != nil {
		// Try to recover if the database is corrupted
		if _, ok := err.(*leveldberrors.ErrCorrupted); ok {
			db, err = leveldb.RecoverFile(dbPath, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("kvs/leveldb: failed to open database at %s: %w", dbPath, err)
		}
	}

	return &LevelDBStore{
		prefix: prefix,
		db:     db,
	}, nil
}

// prefixedKey returns the key with prefix prepended.
func (l *LevelDBStore) prefixedKey(key string) []byte {
	if l.prefix == "" {
		return []byte(key)
	}
	return []byte(l.prefix + key)
}

// Get retrieves a value by key.
func (l *LevelDBStore) Get(ctx context.Context, key string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, ErrClosed
	}

	value, err := l.db.Get(l.prefixedKey(key), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kvs/leveldb: get failed: %w", err)
	}

	return value, nil
}

// Set stores a value, overwriting any previous value.
func (l *LevelDBStore) Set(ctx context.Context, key string, value []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.db.Put(l.prefixedKey(key), value, nil); err != nil {
		return fmt.Errorf("kvs/leveldb: set failed: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (l *LevelDBStore) Delete(ctx context.Context, key string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.db.Delete(l.prefixedKey(key), nil); err != nil {
		return fmt.Errorf("kvs/leveldb: delete failed: %w", err)
	}
	return nil
}

// Exists checks if a key exists.
func (l *LevelDBStore) Exists(ctx context.Context, key string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return false, ErrClosed
	}

	has, err := l.db.Has(l.prefixedKey(key), nil)
	if err != nil {
		return false, fmt.Errorf("kvs/leveldb: exists check failed: %w", err)
	}
	return has, nil
}

// Close closes the underlying database.
func (l *LevelDBStore) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.closed = true

	if err := l.db.Close(); err != nil {
		return fmt.Errorf("kvs/leveldb: close failed: %w", err)
	}
	return nil
}
