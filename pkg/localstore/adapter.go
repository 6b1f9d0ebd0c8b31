// Package localstore is a typed persistence adapter over a kvs.Store.
//
// It plays the role browser local storage plays for the Bricked Up web app:
// a durable mirror of session and profile state that survives restarts.
// Everything stored here is re-derivable from the backend, so the adapter
// trades durability guarantees for a simple contract: reads never fail
// across the public boundary, a malformed or unreadable blob is treated as
// absent, and writes are full overwrites (last write wins).
package localstore

import (
	"context"
	"encoding/json"

	"github.com/brickedup/sessionkit/pkg/kvs"
	"github.com/brickedup/sessionkit/pkg/logging"
)

// BlobVersion is the current envelope version. Bump it when the stored
// shape changes; readers treat any other version as absent so older state
// is refetched instead of misparsed.
const BlobVersion = 1

// StoredBlob is the envelope every value is persisted in.
type StoredBlob struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	Version int             `json:"version"`
}

// Well-known keys managed by the session manager. They are opaque strings;
// nothing else in this package interprets them.
const (
	KeySession = "session"
	KeyUser    = "user"
	KeyEdits   = "user-edits"
	KeyDevice  = "device"
)

// Adapter wraps a kvs.Store with JSON envelope handling and the
// never-throw read contract.
type Adapter struct {
	store  kvs.Store
	logger logging.Logger
}

// New creates an Adapter over the given store.
func New(store kvs.Store, logger logging.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: logger.WithModule("localstore"),
	}
}

// Read returns the raw JSON value stored under key, or absent.
// It never returns an error: a missing key, a corrupt envelope, a version
// mismatch, and a backend failure all log and report absent.
func (a *Adapter) Read(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if err != kvs.ErrNotFound {
			a.logger.Warn("read failed, treating as absent", "key", key, "error", err)
		}
		return nil, false
	}

	var blob StoredBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		a.logger.Warn("corrupt blob, treating as absent", "key", key, "error", err)
		return nil, false
	}

	if blob.Version != BlobVersion {
		a.logger.Warn("unknown blob version, treating as absent", "key", key, "version", blob.Version)
		return nil, false
	}

	return blob.Value, true
}

// ReadInto reads the value stored under key into dst.
// Returns false (absent) when the key is missing, the envelope is corrupt,
// or the value does not unmarshal into dst.
func (a *Adapter) ReadInto(ctx context.Context, key string, dst interface{}) bool {
	raw, ok := a.Read(ctx, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		a.logger.Warn("blob value does not match expected shape, treating as absent", "key", key, "error", err)
		return false
	}
	return true
}

// Write serializes value into a StoredBlob envelope and persists it,
// fully overwriting any previous value.
func (a *Adapter) Write(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	blob := StoredBlob{
		Key:     key,
		Value:   raw,
		Version: BlobVersion,
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return err
	}

	return a.store.Set(ctx, key, data)
}

// Remove deletes the value stored under key. Removing an absent key is not
// an error, and backend failures are logged rather than surfaced: the data
// is re-derivable, and logout must always succeed locally.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.Warn("remove failed", "key", key, "error", err)
	}
}
