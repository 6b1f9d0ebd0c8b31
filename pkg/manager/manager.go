// Package manager is the single owner of the current session and profile.
//
// Views and commands hold read references only; every state change flows
// through the manager, which mirrors session and profile to the persistence
// adapter so state survives restarts. Concurrent auth calls follow a
// last-call-wins discipline: each call is tagged with a monotonically
// increasing request id, and a response whose id is no longer current is
// discarded instead of overwriting newer state.
package manager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/brickedup/sessionkit/pkg/gateway"
	"github.com/brickedup/sessionkit/pkg/guard"
	"github.com/brickedup/sessionkit/pkg/localstore"
	"github.com/brickedup/sessionkit/pkg/logging"
	"github.com/brickedup/sessionkit/pkg/profile"
	"github.com/brickedup/sessionkit/pkg/session"
)

var (
	// ErrSuperseded is returned when a call's result arrived after a newer
	// call (or a logout) took over; the result was discarded.
	ErrSuperseded = errors.New("manager: result superseded by a newer request")

	// ErrNoSession is returned by operations that need a logged-in user.
	ErrNoSession = errors.New("manager: no active session")
)

// Manager owns the Session and the profile cache.
type Manager struct {
	gw      *gateway.Gateway
	adapter *localstore.Adapter
	cache   *profile.Cache
	logger  logging.Logger
	clock   func() time.Time

	mu       sync.Mutex
	current  session.Session
	checking bool

	reqID atomic.Int64
}

// New creates a Manager over the given gateway and persistence adapter.
func New(gw *gateway.Gateway, adapter *localstore.Adapter, logger logging.Logger) *Manager {
	m := &Manager{
		gw:      gw,
		adapter: adapter,
		logger:  logger.WithModule("manager"),
		clock:   time.Now,
		current: session.Clear(),
	}

	m.cache = profile.NewCache(adapter, m.fetchProfile, m.commitProfile, logger)
	return m
}

// EnsureDeviceID returns the stable device identifier for this install,
// generating and persisting one on first use.
func EnsureDeviceID(ctx context.Context, adapter *localstore.Adapter) string {
	var id string
	if adapter.ReadInto(ctx, localstore.KeyDevice, &id) && id != "" {
		return id
	}

	id = uuid.NewString()
	if err := adapter.Write(ctx, localstore.KeyDevice, id); err != nil {
		// Non-fatal: a fresh id next run just looks like a new device
		return id
	}
	return id
}

// Hydrate loads persisted session state, optimistically and possibly stale.
// Lazy expiry is applied, so a session whose expiry passed while the app
// was closed comes back as expired, never as authenticated.
func (m *Manager) Hydrate(ctx context.Context) {
	var stored session.Session
	if !m.adapter.ReadInto(ctx, localstore.KeySession, &stored) {
		// Absence is anonymous, never an error
		return
	}

	m.mu.Lock()
	m.current = session.Checked(stored, m.clock())
	m.mu.Unlock()

	m.logger.Debug("session hydrated", "status", stored.Status, "email", stored.Email)
}

// ConfirmIdentity revalidates a hydrated session against the backend.
// While the round-trip is in flight Checking() reports true, which the
// route guard renders as Loading. Backend unavailability keeps the
// optimistic local state; only an id mismatch discards the result.
func (m *Manager) ConfirmIdentity(ctx context.Context) error {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s.Status != session.StatusAuthenticated && s.Status != session.StatusPendingVerification {
		return nil
	}

	id := m.reqID.Load()

	m.setChecking(true)
	defer m.setChecking(false)

	verified, err := m.gw.VerifyEmail(ctx, s.ID, "")
	if err != nil {
		m.logger.Warn("identity check failed, keeping local state", "error", err)
		return err
	}

	if m.reqID.Load() != id {
		return ErrSuperseded
	}

	if verified && s.Status == session.StatusPendingVerification {
		m.mu.Lock()
		m.current = session.Verified(m.current)
		s = m.current
		m.mu.Unlock()
		m.persistSession(ctx, s)
	}
	return nil
}

// Login authenticates and replaces the current session. If another login
// was issued after this one, this one's response is discarded on arrival
// and ErrSuperseded is returned.
func (m *Manager) Login(ctx context.Context, email, password string) (session.Session, error) {
	id := m.reqID.Add(1)

	s, err := m.gw.Login(ctx, email, password)
	if err != nil {
		return session.Clear(), err
	}

	if m.reqID.Load() != id {
		m.logger.Debug("discarding stale login response", "email", email)
		return session.Clear(), ErrSuperseded
	}

	m.adopt(ctx, s)
	return s, nil
}

// Signup registers a new account; the session is pending-verification.
func (m *Manager) Signup(ctx context.Context, email, password string) (session.Session, error) {
	id := m.reqID.Add(1)

	s, err := m.gw.Signup(ctx, email, password)
	if err != nil {
		return session.Clear(), err
	}

	if m.reqID.Load() != id {
		return session.Clear(), ErrSuperseded
	}

	m.adopt(ctx, s)
	return s, nil
}

// VerifyEmail redeems an emailed verification token and, on success,
// upgrades a pending session to authenticated.
func (m *Manager) VerifyEmail(ctx context.Context, token string) (session.Session, error) {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s.Status == session.StatusAnonymous {
		return session.Clear(), ErrNoSession
	}

	id := m.reqID.Add(1)

	verified, err := m.gw.VerifyEmail(ctx, s.ID, token)
	if err != nil {
		return session.Clear(), err
	}

	if m.reqID.Load() != id {
		return session.Clear(), ErrSuperseded
	}

	if verified {
		m.mu.Lock()
		m.current = session.Verified(m.current)
		s = m.current
		m.mu.Unlock()
		m.persistSession(ctx, s)
	}
	return s, nil
}

// Logout clears local state immediately and synchronously: session to
// anonymous, persisted mirrors removed, profile cache invalidated. The
// request id is bumped first so any in-flight call's response is discarded
// on arrival. Remote invalidation is best effort; its failure is logged,
// never surfaced.
func (m *Manager) Logout(ctx context.Context) {
	m.reqID.Add(1)

	m.mu.Lock()
	sessionID := m.current.ID
	m.current = session.Clear()
	m.mu.Unlock()

	m.adapter.Remove(ctx, localstore.KeySession)
	m.cache.Invalidate(ctx)

	if sessionID != "" {
		if err := m.gw.LogoutRemote(ctx, sessionID); err != nil {
			m.logger.Warn("remote logout failed", "error", err)
		}
	}

	m.logger.Info("logged out")
}

// Current returns the session with lazy expiry applied. A session whose
// expiry passed transitions to expired in memory before it is returned.
func (m *Manager) Current() session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	checked := session.Checked(m.current, m.clock())
	if checked.Status != m.current.Status {
		m.logger.Debug("session expired lazily", "email", m.current.Email)
		m.current = checked
	}
	return m.current
}

// Checking reports whether an async identity check is in flight.
func (m *Manager) Checking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checking
}

// Decide asks the route guard about a requirement against current state.
// Importers that only render can use this instead of wiring guard
// themselves.
func (m *Manager) Decide(req guard.Requirement) guard.Decision {
	return guard.Decide(m.Current(), req, m.clock(), m.Checking())
}

// Profile exposes the profile cache. Reads may go through it directly;
// writes still round-trip via the gateway on Commit.
func (m *Manager) Profile() *profile.Cache {
	return m.cache
}

// adopt installs a freshly minted session and mirrors state.
func (m *Manager) adopt(ctx context.Context, s session.Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.persistSession(ctx, s)

	// Mirror the profile eagerly; failure keeps whatever is cached
	if _, err := m.cache.Refresh(ctx); err != nil {
		m.logger.Warn("profile mirror failed after login", "error", err)
	}

	m.logger.Info("session established", "email", s.Email, "status", s.Status)
}

func (m *Manager) persistSession(ctx context.Context, s session.Session) {
	if err := m.adapter.Write(ctx, localstore.KeySession, s); err != nil {
		m.logger.Warn("failed to persist session", "error", err)
	}
}

// fetchProfile is the cache's fetch function. It carries the request id
// discipline: a fetch that lands after a logout (or a newer login) is
// discarded rather than written into the cache.
func (m *Manager) fetchProfile(ctx context.Context) (profile.UserProfile, error) {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s.UserID == "" {
		return profile.UserProfile{}, ErrNoSession
	}

	id := m.reqID.Load()

	p, err := m.gw.FetchUser(ctx, s.UserID)
	if err != nil {
		return profile.UserProfile{}, err
	}

	if m.reqID.Load() != id {
		return profile.UserProfile{}, ErrSuperseded
	}
	return p, nil
}

// commitProfile is the cache's commit function.
func (m *Manager) commitProfile(ctx context.Context, patch profile.Patch) error {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()

	if s.ID == "" {
		return ErrNoSession
	}
	return m.gw.UpdateUser(ctx, s.ID, patch)
}

func (m *Manager) setChecking(v bool) {
	m.mu.Lock()
	m.checking = v
	m.mu.Unlock()
}
