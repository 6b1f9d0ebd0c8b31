package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func expiring(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestFromLoginResponse(t *testing.T) {
	tests := []struct {
		name     string
		payload  LoginPayload
		expected Status
	}{
		{
			name:     "verified login is authenticated",
			payload:  LoginPayload{SessionID: "s1", UserID: "u1", Email: "a@b.com", Verified: true},
			expected: StatusAuthenticated,
		},
		{
			name:     "unverified login is pending verification",
			payload:  LoginPayload{SessionID: "s1", UserID: "u1", Email: "a@b.com", Verified: false},
			expected: StatusPendingVerification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromLoginResponse(tt.payload, now)
			assert.Equal(t, tt.expected, s.Status)
			assert.Equal(t, "a@b.com", s.Email)
			assert.Equal(t, "u1", s.UserID)
			assert.Equal(t, now, s.IssuedAt)
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		valid   bool
	}{
		{
			name:    "authenticated without expiry",
			session: Session{Status: StatusAuthenticated},
			valid:   true,
		},
		{
			name:    "authenticated with future expiry",
			session: Session{Status: StatusAuthenticated, ExpiresAt: expiring(time.Hour)},
			valid:   true,
		},
		{
			name:    "authenticated with past expiry",
			session: Session{Status: StatusAuthenticated, ExpiresAt: expiring(-time.Hour)},
			valid:   false,
		},
		{
			name:    "pending verification is not valid",
			session: Session{Status: StatusPendingVerification},
			valid:   false,
		},
		{
			name:    "anonymous is not valid",
			session: Session{Status: StatusAnonymous},
			valid:   false,
		},
		{
			name:    "expired is not valid",
			session: Session{Status: StatusExpired},
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.session, now))
		})
	}
}

// Expired sessions are never valid, for any clock value.
func TestExpireDominatesIsValid(t *testing.T) {
	sessions := []Session{
		{Status: StatusAuthenticated},
		{Status: StatusAuthenticated, ExpiresAt: expiring(time.Hour)},
		{Status: StatusPendingVerification},
		{Status: StatusAnonymous},
	}

	clocks := []time.Time{now.Add(-24 * time.Hour), now, now.Add(24 * time.Hour)}

	for _, s := range sessions {
		expired := Expire(s)
		for _, clock := range clocks {
			assert.False(t, IsValid(expired, clock))
		}
	}
}

// Lazy expiry dominates a stale status field: a persisted session that claims
// to be authenticated but whose expiry passed must read as expired.
func TestCheckedForcesExpiry(t *testing.T) {
	stale := Session{
		Status:    StatusAuthenticated,
		Email:     "a@b.com",
		UserID:    "u1",
		ExpiresAt: expiring(-time.Minute),
	}

	checked := Checked(stale, now)
	assert.Equal(t, StatusExpired, checked.Status)
	assert.False(t, IsValid(checked, now))

	// Identity is retained for login prefill
	assert.Equal(t, "a@b.com", checked.Email)
}

func TestCheckedLeavesFreshSessionAlone(t *testing.T) {
	fresh := Session{Status: StatusAuthenticated, ExpiresAt: expiring(time.Hour)}
	assert.Equal(t, fresh, Checked(fresh, now))

	nonExpiring := Session{Status: StatusAuthenticated}
	assert.Equal(t, nonExpiring, Checked(nonExpiring, now))

	anon := Clear()
	assert.Equal(t, anon, Checked(anon, now))
}

func TestCheckedExpiresPendingVerification(t *testing.T) {
	pending := Session{Status: StatusPendingVerification, ExpiresAt: expiring(-time.Minute)}
	assert.Equal(t, StatusExpired, Checked(pending, now).Status)
}

func TestVerified(t *testing.T) {
	pending := Session{Status: StatusPendingVerification, Email: "a@b.com"}
	assert.Equal(t, StatusAuthenticated, Verified(pending).Status)

	// Only pending-verification transitions
	assert.Equal(t, StatusAnonymous, Verified(Clear()).Status)
	assert.Equal(t, StatusExpired, Verified(Session{Status: StatusExpired}).Status)
	assert.Equal(t, StatusAuthenticated, Verified(Session{Status: StatusAuthenticated}).Status)
}

func TestClear(t *testing.T) {
	s := Clear()
	assert.Equal(t, StatusAnonymous, s.Status)
	assert.Empty(t, s.Email)
	assert.Empty(t, s.UserID)
	assert.Nil(t, s.ExpiresAt)
}
