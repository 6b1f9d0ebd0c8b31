// Package session models the local authenticated identity as a small state
// machine:
//
//	anonymous → pending-verification → authenticated → expired → anonymous
//
// Sessions are plain values. All transitions are pure functions so the
// owning controller can reason about state without locks, and expiry is
// checked lazily at read time rather than by a background timer.
package session

import "time"

// Status is the lifecycle state of a session.
type Status string

const (
	// StatusAnonymous means nobody is logged in.
	StatusAnonymous Status = "anonymous"

	// StatusPendingVerification means credentials were accepted but the
	// email address has not been verified yet.
	StatusPendingVerification Status = "pending-verification"

	// StatusAuthenticated means the identity is fully established.
	StatusAuthenticated Status = "authenticated"

	// StatusExpired means the session's expiry passed. Identity fields are
	// retained so a login form can be prefilled with the previous email.
	StatusExpired Status = "expired"
)

// Session represents "who is logged in and until when".
type Session struct {
	ID     string `json:"id"` // backend session id, opaque
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Status Status `json:"status"`

	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is nil for non-expiring sessions.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// LoginPayload is the normalized shape of a successful login or signup
// response, produced by the auth gateway.
type LoginPayload struct {
	SessionID string
	UserID    string
	Email     string
	Verified  bool
	ExpiresAt *time.Time
}

// FromLoginResponse maps a successful login/signup payload to a Session.
// A verified identity is authenticated; an unverified one is
// pending-verification until the emailed link is followed.
func FromLoginResponse(p LoginPayload, now time.Time) Session {
	status := StatusAuthenticated
	if !p.Verified {
		status = StatusPendingVerification
	}

	return Session{
		ID:        p.SessionID,
		UserID:    p.UserID,
		Email:     p.Email,
		Status:    status,
		IssuedAt:  now,
		ExpiresAt: p.ExpiresAt,
	}
}

// IsValid reports whether the session grants access at the given instant:
// authenticated, and either non-expiring or not yet expired.
func IsValid(s Session, now time.Time) bool {
	if s.Status != StatusAuthenticated {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// Checked applies lazy expiry: a session whose ExpiresAt is in the past is
// forced to expired regardless of its stored status, so stale persisted
// state can never grant access. Every read of the current session goes
// through this before the value is handed to a caller.
func Checked(s Session, now time.Time) Session {
	if s.Status == StatusAnonymous {
		return s
	}
	if s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
		return Expire(s)
	}
	return s
}

// Expire forces the session into the expired state, retaining identity.
func Expire(s Session) Session {
	s.Status = StatusExpired
	return s
}

// Verified marks a pending-verification session as authenticated. Sessions
// in any other state are returned unchanged; verification of an expired or
// anonymous session is meaningless.
func Verified(s Session) Session {
	if s.Status == StatusPendingVerification {
		s.Status = StatusAuthenticated
	}
	return s
}

// Clear returns the anonymous session. Allowed from any state; this is the
// logout transition.
func Clear() Session {
	return Session{Status: StatusAnonymous}
}
