package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickedup/sessionkit/pkg/logging"
	"github.com/brickedup/sessionkit/pkg/session"
)

// fakeSource is a static SessionSource for middleware tests.
type fakeSource struct {
	session  session.Session
	checking bool
}

func (f *fakeSource) Current() session.Session { return f.session }
func (f *fakeSource) Checking() bool           { return f.checking }

func newGuarded(source SessionSource, cfg MiddlewareConfig) http.Handler {
	m := NewMiddleware(source, cfg, logging.NewTestLogger())
	return m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("content"))
	}))
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMiddleware_AllowsAuthenticated(t *testing.T) {
	source := &fakeSource{session: session.Session{Status: session.StatusAuthenticated}}
	handler := newGuarded(source, MiddlewareConfig{})

	rec := get(t, handler, "/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "content", rec.Body.String())
}

func TestMiddleware_RedirectsAnonymousToLogin(t *testing.T) {
	source := &fakeSource{session: session.Clear()}
	handler := newGuarded(source, MiddlewareConfig{})

	rec := get(t, handler, "/dashboard")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", rec.Header().Get("Location"))
}

func TestMiddleware_RedirectsPendingToVerify(t *testing.T) {
	source := &fakeSource{session: session.Session{Status: session.StatusPendingVerification}}
	handler := newGuarded(source, MiddlewareConfig{
		Rules: []Rule{{Prefix: "/settings", Requirement: RequiresVerified}},
	})

	rec := get(t, handler, "/settings/profile")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/verify", rec.Header().Get("Location"))

	// Plain protected routes are still reachable while pending
	rec = get(t, handler, "/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_PublicRuleBypassesAuth(t *testing.T) {
	source := &fakeSource{session: session.Clear()}
	handler := newGuarded(source, MiddlewareConfig{
		Rules: []Rule{
			{Exact: "/", Requirement: Public},
			{Prefix: "/about", Requirement: Public},
		},
	})

	assert.Equal(t, http.StatusOK, get(t, handler, "/").Code)
	assert.Equal(t, http.StatusOK, get(t, handler, "/about/team").Code)
	assert.Equal(t, http.StatusFound, get(t, handler, "/dashboard").Code)
}

func TestMiddleware_LongestPrefixWins(t *testing.T) {
	source := &fakeSource{session: session.Clear()}
	handler := newGuarded(source, MiddlewareConfig{
		Rules: []Rule{
			{Prefix: "/docs", Requirement: Public},
			{Prefix: "/docs/internal", Requirement: RequiresAuth},
		},
	})

	assert.Equal(t, http.StatusOK, get(t, handler, "/docs/intro").Code)
	assert.Equal(t, http.StatusFound, get(t, handler, "/docs/internal/runbook").Code)
}

func TestMiddleware_LoadingWhileChecking(t *testing.T) {
	source := &fakeSource{session: session.Clear(), checking: true}
	handler := newGuarded(source, MiddlewareConfig{})

	rec := get(t, handler, "/dashboard")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMiddleware_LoginAndVerifyPathsAlwaysReachable(t *testing.T) {
	source := &fakeSource{session: session.Clear()}
	handler := newGuarded(source, MiddlewareConfig{})

	assert.Equal(t, http.StatusOK, get(t, handler, "/login").Code)
	assert.Equal(t, http.StatusOK, get(t, handler, "/verify").Code)
}

func TestMiddleware_ExpiredSessionRedirects(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	source := &fakeSource{session: session.Session{
		Status:    session.StatusAuthenticated,
		ExpiresAt: &past,
	}}
	handler := newGuarded(source, MiddlewareConfig{})

	assert.Equal(t, http.StatusFound, get(t, handler, "/dashboard").Code)
}
