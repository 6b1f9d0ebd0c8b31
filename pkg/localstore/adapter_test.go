package localstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickedup/sessionkit/pkg/kvs"
	"github.com/brickedup/sessionkit/pkg/logging"
)

func newAdapter(t *testing.T) (*Adapter, kvs.Store) {
	t.Helper()
	store := kvs.NewMemoryStore("")
	t.Cleanup(func() { _ = store.Close() })
	return New(store, logging.NewTestLogger()), store
}

func TestWriteReadRoundTrip(t *testing.T) {
	adapter, _ := newAdapter(t)
	ctx := context.Background()

	type payload struct {
		Email string   `json:"email"`
		Names []string `json:"names"`
	}

	in := payload{Email: "a@b.com", Names: []string{"x", "y"}}
	require.NoError(t, adapter.Write(ctx, "user", in))

	var out payload
	require.True(t, adapter.ReadInto(ctx, "user", &out))
	assert.Equal(t, in, out)
}

func TestReadMissingKeyIsAbsent(t *testing.T) {
	adapter, _ := newAdapter(t)

	_, ok := adapter.Read(context.Background(), "nope")
	assert.False(t, ok)
}

func TestReadCorruptBlobIsAbsent(t *testing.T) {
	adapter, store := newAdapter(t)
	ctx := context.Background()

	// Raw garbage under the key, not a valid envelope
	require.NoError(t, store.Set(ctx, "user", []byte("{not json")))

	_, ok := adapter.Read(ctx, "user")
	assert.False(t, ok, "corrupt blob must be treated as absent, not an error")
}

func TestReadUnknownVersionIsAbsent(t *testing.T) {
	adapter, store := newAdapter(t)
	ctx := context.Background()

	blob, err := json.Marshal(StoredBlob{
		Key:     "user",
		Value:   json.RawMessage(`{"email":"a@b.com"}`),
		Version: BlobVersion + 1,
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "user", blob))

	_, ok := adapter.Read(ctx, "user")
	assert.False(t, ok, "a newer envelope version must be treated as absent")
}

func TestReadIntoShapeMismatchIsAbsent(t *testing.T) {
	adapter, _ := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "user", map[string]string{"email": "a@b.com"}))

	var dst []int
	assert.False(t, adapter.ReadInto(ctx, "user", &dst))
}

func TestWriteOverwrites(t *testing.T) {
	adapter, _ := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "k", map[string]string{"v": "first"}))
	require.NoError(t, adapter.Write(ctx, "k", map[string]string{"v": "second"}))

	var out map[string]string
	require.True(t, adapter.ReadInto(ctx, "k", &out))
	assert.Equal(t, "second", out["v"])
}

func TestRemoveIsIdempotent(t *testing.T) {
	adapter, _ := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "k", "v"))

	adapter.Remove(ctx, "k")
	adapter.Remove(ctx, "k") // second remove of an absent key must be fine

	_, ok := adapter.Read(ctx, "k")
	assert.False(t, ok)
}

func TestRemoveOnClosedStoreDoesNotPanic(t *testing.T) {
	store := kvs.NewMemoryStore("")
	adapter := New(store, logging.NewTestLogger())
	require.NoError(t, store.Close())

	// Failure is logged, never surfaced
	adapter.Remove(context.Background(), "k")

	_, ok := adapter.Read(context.Background(), "k")
	assert.False(t, ok)
}
