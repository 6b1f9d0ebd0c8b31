// Package guard decides whether a navigation target is reachable given the
// current session state. The decision function is pure; rendering redirects
// and loading placeholders is the caller's job.
package guard

import (
	"time"

	"github.com/brickedup/sessionkit/pkg/session"
)

// Requirement is what a route demands of the session.
type Requirement string

const (
	// Public routes are reachable by anyone.
	Public Requirement = "public"

	// RequiresAuth routes need a live session; a pending-verification
	// session is enough.
	RequiresAuth Requirement = "requires-auth"

	// RequiresVerified routes additionally need the email verified.
	RequiresVerified Requirement = "requires-verified"
)

// Decision is the guard's verdict.
type Decision string

const (
	// Allow lets the navigation proceed.
	Allow Decision = "allow"

	// RedirectLogin sends the user to the login screen.
	RedirectLogin Decision = "redirect-login"

	// RedirectVerify sends the user to the "check your email" screen.
	RedirectVerify Decision = "redirect-verify"

	// Loading covers the window between app start and the identity check
	// resolving; the caller renders a placeholder.
	Loading Decision = "loading"
)

// Decide evaluates the guard rules in order. It is pure and side-effect
// free: identical arguments always yield the identical decision, and an
// indeterminate session is always sent to login rather than erroring.
//
// checking is true while an async identity check is in flight.
func Decide(s session.Session, req Requirement, now time.Time, checking bool) Decision {
	if checking {
		return Loading
	}

	if req == Public {
		return Allow
	}

	// Lazy expiry first, so stale persisted state can't sneak through
	s = session.Checked(s, now)

	live := s.Status == session.StatusAuthenticated || s.Status == session.StatusPendingVerification
	if !live {
		return RedirectLogin
	}

	if req == RequiresVerified && s.Status != session.StatusAuthenticated {
		return RedirectVerify
	}

	return Allow
}
