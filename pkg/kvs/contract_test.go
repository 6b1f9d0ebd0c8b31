package kvs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxb() context.Context { return context.Background() }

// newBackends builds one store per backend so that every implementation is
// held to the same contract.
func newBackends(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)

	leveldbStore, err := NewLevelDBStore("", LevelDBConfig{Path: t.TempDir() + "/db"})
	require.NoError(t, err)

	redisStore, err := NewRedisStore("test", RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)

	return map[string]Store{
		"memory":  NewMemoryStore(""),
		"leveldb": leveldbStore,
		"redis":   redisStore,
	}
}

func TestStoreContract_SetGetRoundTrip(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			require.NoError(t, store.Set(ctxb(), "user", []byte(`{"email":"a@b.com"}`)))

			got, err := store.Get(ctxb(), "user")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"email":"a@b.com"}`), got)
		})
	}
}

func TestStoreContract_GetMissingKey(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			_, err := store.Get(ctxb(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreContract_LastWriteWins(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			require.NoError(t, store.Set(ctxb(), "k", []byte("first")))
			require.NoError(t, store.Set(ctxb(), "k", []byte("second")))

			got, err := store.Get(ctxb(), "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("second"), got)
		})
	}
}

func TestStoreContract_DeleteIsIdempotent(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			require.NoError(t, store.Set(ctxb(), "k", []byte("v")))
			require.NoError(t, store.Delete(ctxb(), "k"))

			// Deleting an absent key must not be an error
			require.NoError(t, store.Delete(ctxb(), "k"))

			_, err := store.Get(ctxb(), "k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreContract_Exists(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			exists, err := store.Exists(ctxb(), "k")
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, store.Set(ctxb(), "k", []byte("v")))

			exists, err = store.Exists(ctxb(), "k")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestStoreContract_OperationsAfterClose(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Close())

			_, err := store.Get(ctxb(), "k")
			assert.ErrorIs(t, err, ErrClosed)

			assert.ErrorIs(t, store.Set(ctxb(), "k", []byte("v")), ErrClosed)
			assert.ErrorIs(t, store.Delete(ctxb(), "k"), ErrClosed)

			_, err = store.Exists(ctxb(), "k")
			assert.ErrorIs(t, err, ErrClosed)

			assert.ErrorIs(t, store.Close(), ErrClosed)
		})
	}
}

func TestLevelDBStore_SurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/db"

	store, err := NewLevelDBStore("", LevelDBConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctxb(), "session", []byte("blob")))
	require.NoError(t, store.Close())

	reopened, err := NewLevelDBStore("", LevelDBConfig{Path: path})
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctxb(), "session")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)
}

func TestRedisStore_NamespaceIsolation(t *testing.T) {
	mr := miniredis.RunT(t)

	a, err := NewRedisStore("a", RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	b, err := NewRedisStore("b", RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	require.NoError(t, a.Set(ctxb(), "k", []byte("from-a")))

	_, err = b.Get(ctxb(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
