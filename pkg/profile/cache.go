package profile

import (
	"context"
	"sync"

	"github.com/brickedup/sessionkit/pkg/localstore"
	"github.com/brickedup/sessionkit/pkg/logging"
)

// FetchFunc loads the profile from the backend. Wired to the auth
// gateway's FetchUser by the session manager.
type FetchFunc func(ctx context.Context) (UserProfile, error)

// CommitFunc pushes accumulated local edits to the backend. Wired to the
// auth gateway's UpdateUser by the session manager.
type CommitFunc func(ctx context.Context, patch Patch) error

// Cache is a read-through cache of the current user's profile.
//
// Reads come from memory, then from the persistence adapter; only Refresh
// touches the network. Local edits are applied optimistically and persisted
// immediately, but are not considered saved to the server until an explicit
// Commit round-trip succeeds.
type Cache struct {
	mu      sync.Mutex
	adapter *localstore.Adapter
	fetch   FetchFunc
	commit  CommitFunc
	logger  logging.Logger

	current       *UserProfile
	pending       Patch // uncommitted local edits
	pendingLoaded bool
}

// NewCache creates a profile cache over the given adapter.
func NewCache(adapter *localstore.Adapter, fetch FetchFunc, commit CommitFunc, logger logging.Logger) *Cache {
	return &Cache{
		adapter: adapter,
		fetch:   fetch,
		commit:  commit,
		logger:  logger.WithModule("profile"),
	}
}

// Get returns the cached profile, hydrating from the persistence adapter on
// first use. It never calls the network. The second return is false when no
// profile is available at all.
func (c *Cache) Get(ctx context.Context) (UserProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadPendingLocked(ctx)

	if c.current != nil {
		return *c.current, true
	}

	var stored UserProfile
	if c.adapter.ReadInto(ctx, localstore.KeyUser, &stored) {
		c.current = &stored
		return stored, true
	}

	return UserProfile{}, false
}

// Refresh fetches the profile from the backend and replaces both the
// in-memory and persisted copies. On failure the previous cached value is
// kept and the typed error is returned to the caller.
func (c *Cache) Refresh(ctx context.Context) (UserProfile, error) {
	fetched, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("refresh failed, keeping cached profile", "error", err)
		return UserProfile{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = &fetched
	if err := c.adapter.Write(ctx, localstore.KeyUser, fetched); err != nil {
		c.logger.Warn("failed to persist refreshed profile", "error", err)
	}

	return fetched, nil
}

// ApplyLocalEdit shallow-merges the patch into the cached profile and
// persists the result immediately. Fields absent from the patch are never
// dropped. The edit is optimistic: it is not pushed to the server until
// Commit is called.
func (c *Cache) ApplyLocalEdit(ctx context.Context, patch Patch) UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadPendingLocked(ctx)

	base := UserProfile{}
	if c.current != nil {
		base = *c.current
	} else {
		// Hydrate so an edit before the first Get doesn't clobber stored state
		c.adapter.ReadInto(ctx, localstore.KeyUser, &base)
	}

	merged := patch.apply(base)
	c.current = &merged
	c.pending = mergePatch(c.pending, patch)
	c.persistPendingLocked(ctx)

	if err := c.adapter.Write(ctx, localstore.KeyUser, merged); err != nil {
		c.logger.Warn("failed to persist local edit", "error", err)
	}

	return merged
}

// Commit pushes uncommitted local edits through the backend update call.
// On success the pending patch is cleared; on failure it is retained so a
// retry commits the same edits.
func (c *Cache) Commit(ctx context.Context) error {
	c.mu.Lock()
	c.loadPendingLocked(ctx)
	patch := c.pending
	c.mu.Unlock()

	if patch.IsEmpty() {
		return nil
	}

	if err := c.commit(ctx, patch); err != nil {
		return err
	}

	c.mu.Lock()
	c.pending = Patch{}
	c.adapter.Remove(ctx, localstore.KeyEdits)
	c.mu.Unlock()
	return nil
}

// Dirty reports whether there are local edits not yet committed, including
// edits persisted by a previous process.
func (c *Cache) Dirty(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadPendingLocked(ctx)
	return !c.pending.IsEmpty()
}

// Invalidate drops the in-memory and persisted copies. Used on logout.
func (c *Cache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = nil
	c.pending = Patch{}
	c.pendingLoaded = true
	c.adapter.Remove(ctx, localstore.KeyUser)
	c.adapter.Remove(ctx, localstore.KeyEdits)
}

// loadPendingLocked merges edits persisted by a previous process into the
// in-memory pending patch. Password edits are never written to disk, so
// only display name and avatar survive a restart.
func (c *Cache) loadPendingLocked(ctx context.Context) {
	if c.pendingLoaded {
		return
	}
	c.pendingLoaded = true

	var stored Patch
	if c.adapter.ReadInto(ctx, localstore.KeyEdits, &stored) {
		c.pending = mergePatch(stored, c.pending)
	}
}

func (c *Cache) persistPendingLocked(ctx context.Context) {
	if c.pending.IsEmpty() {
		c.adapter.Remove(ctx, localstore.KeyEdits)
		return
	}
	if err := c.adapter.Write(ctx, localstore.KeyEdits, c.pending); err != nil {
		c.logger.Warn("failed to persist pending edits", "error", err)
	}
}

func mergePatch(base, next Patch) Patch {
	if next.DisplayName != nil {
		base.DisplayName = next.DisplayName
	}
	if next.AvatarURL != nil {
		base.AvatarURL = next.AvatarURL
	}
	if next.Password != nil {
		base.Password = next.Password
	}
	return base
}
