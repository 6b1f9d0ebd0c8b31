package guard

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/brickedup/sessionkit/pkg/logging"
	"github.com/brickedup/sessionkit/pkg/session"
)

// SessionSource supplies the current session state to the middleware.
// The session manager implements it.
type SessionSource interface {
	Current() session.Session
	Checking() bool
}

// Rule maps a path to a requirement. Exactly one of Exact or Prefix should
// be set; exact rules are checked before prefix rules, and among prefix
// rules the longest match wins.
type Rule struct {
	Exact  string
	Prefix string

	Requirement Requirement
}

// Middleware gates an http.Handler behind the route guard.
// It is the server-side rendition of the web app's protected routes: a
// thin wrapper that asks Decide and performs the actual redirect or
// renders the loading placeholder.
type Middleware struct {
	source     SessionSource
	rules      []Rule
	defaultReq Requirement
	loginPath  string
	verifyPath string
	logger     logging.Logger
	next       http.Handler
	clock      func() time.Time
}

// MiddlewareConfig configures the guard middleware.
type MiddlewareConfig struct {
	Rules []Rule

	// Default is applied when no rule matches. Defaults to RequiresAuth.
	Default Requirement

	// LoginPath is where RedirectLogin sends the user (default "/login").
	LoginPath string

	// VerifyPath is where RedirectVerify sends the user (default "/verify").
	VerifyPath string
}

// NewMiddleware creates a guard middleware over the given session source.
func NewMiddleware(source SessionSource, cfg MiddlewareConfig, logger logging.Logger) *Middleware {
	defaultReq := cfg.Default
	if defaultReq == "" {
		defaultReq = RequiresAuth
	}

	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	verifyPath := cfg.VerifyPath
	if verifyPath == "" {
		verifyPath = "/verify"
	}

	// Longest prefix first, so the most specific rule wins
	rules := make([]Rule, len(cfg.Rules))
	copy(rules, cfg.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Prefix) > len(rules[j].Prefix)
	})

	return &Middleware{
		source:     source,
		rules:      rules,
		defaultReq: defaultReq,
		loginPath:  loginPath,
		verifyPath: verifyPath,
		logger:     logger.WithModule("guard"),
		clock:      time.Now,
	}
}

// Wrap wraps a http.Handler with the guard.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	m.next = next
	return m
}

// requirementFor resolves the requirement for a path.
func (m *Middleware) requirementFor(path string) Requirement {
	for _, rule := range m.rules {
		if rule.Exact != "" && rule.Exact == path {
			return rule.Requirement
		}
	}
	for _, rule := range m.rules {
		if rule.Prefix != "" && strings.HasPrefix(path, rule.Prefix) {
			return rule.Requirement
		}
	}
	return m.defaultReq
}

// ServeHTTP implements http.Handler.
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The guard's own redirect targets are always reachable
	if r.URL.Path == m.loginPath || r.URL.Path == m.verifyPath {
		m.next.ServeHTTP(w, r)
		return
	}

	req := m.requirementFor(r.URL.Path)
	decision := Decide(m.source.Current(), req, m.clock(), m.source.Checking())

	switch decision {
	case Allow:
		m.next.ServeHTTP(w, r)

	case RedirectLogin:
		m.logger.Debug("redirecting to login", "path", r.URL.Path)
		http.Redirect(w, r, m.loginPath+"?next="+url.QueryEscape(r.URL.Path), http.StatusFound)

	case RedirectVerify:
		m.logger.Debug("redirecting to verify", "path", r.URL.Path)
		http.Redirect(w, r, m.verifyPath, http.StatusFound)

	case Loading:
		// Identity check still in flight; ask the client to retry shortly
		w.Header().Set("Retry-After", "1")
		http.Error(w, "identity check in progress", http.StatusServiceUnavailable)
	}
}
