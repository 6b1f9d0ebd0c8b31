// Package gateway is the HTTP client for the Bricked Up backend API.
//
// Every call normalizes responses the same way: 2xx bodies are parsed into
// typed values, non-2xx responses become a typed *Error whose message is
// extracted from the JSON "message" field (or the raw text body as a
// fallback). The gateway never retries on its own.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brickedup/sessionkit/pkg/logging"
	"github.com/brickedup/sessionkit/pkg/profile"
	"github.com/brickedup/sessionkit/pkg/session"
)

const defaultTimeout = 15 * time.Second

// minPasswordLength is the local password policy floor, checked before any
// network call so a hopeless signup never leaves the machine.
const minPasswordLength = 8

// Gateway performs authentication and profile calls against the backend.
type Gateway struct {
	baseURL  string
	client   *http.Client
	logger   logging.Logger
	deviceID string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.client = client }
}

// WithDeviceID attaches a stable device identifier to every request as the
// X-Device-ID header.
func WithDeviceID(id string) Option {
	return func(g *Gateway) { g.deviceID = id }
}

// New creates a Gateway for the given base URL.
func New(baseURL string, logger logging.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger.WithModule("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// loginResponse is the wire shape of a successful login or signup.
type loginResponse struct {
	SessionID string `json:"sessionid"`
	UserID    string `json:"userid"`
	Expires   string `json:"expires"`
	Verified  bool   `json:"verified"`
}

// Login exchanges credentials for a session.
// 4xx means the credentials were rejected; 5xx and transport failures mean
// the service is unavailable and the caller may retry.
func (g *Gateway) Login(ctx context.Context, email, password string) (session.Session, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	body, status, err := g.postForm(ctx, "/login", form)
	if err != nil {
		return session.Clear(), err
	}
	if status != http.StatusOK {
		return session.Clear(), g.errorFromStatus(status, body, KindInvalidCredentials)
	}

	payload, err := g.parseLoginBody(body, email)
	if err != nil {
		return session.Clear(), err
	}

	s := session.FromLoginResponse(payload, time.Now())
	g.logger.Debug("login succeeded", "email", email, "status", s.Status)
	return s, nil
}

// Signup registers a new account. The resulting session is always
// pending-verification until the emailed verification link is followed;
// email delivery itself is the backend's business.
func (g *Gateway) Signup(ctx context.Context, email, password string) (session.Session, error) {
	if len(password) < minPasswordLength {
		return session.Clear(), newError(KindValidation,
			"password must be at least "+strconv.Itoa(minPasswordLength)+" characters", nil)
	}

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	body, status, err := g.postForm(ctx, "/signup", form)
	if err != nil {
		return session.Clear(), err
	}
	if status != http.StatusOK {
		return session.Clear(), g.errorFromStatus(status, body, KindInvalidCredentials)
	}

	payload, err := g.parseLoginBody(body, email)
	if err != nil {
		return session.Clear(), err
	}

	payload.Verified = false
	s := session.FromLoginResponse(payload, time.Now())
	g.logger.Debug("signup succeeded", "email", email)
	return s, nil
}

// VerifyEmail checks a verification token against the backend and reports
// whether the email is now verified.
func (g *Gateway) VerifyEmail(ctx context.Context, sessionID, token string) (bool, error) {
	q := url.Values{}
	q.Set("token", token)
	if sessionID != "" {
		q.Set("sessionid", sessionID)
	}

	body, status, err := g.get(ctx, "/verify", q)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, g.errorFromStatus(status, body, KindInvalidCredentials)
	}

	var resp struct {
		Verified bool `json:"verified"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, newError(KindServiceUnavailable, "malformed verify response", err)
	}
	return resp.Verified, nil
}

// userResponse is the wire shape of GET /get-user.
type userResponse struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Avatar        string   `json:"avatar"`
	Verified      bool     `json:"verified"`
	Organizations []string `json:"organizations"`
	Projects      []string `json:"projects"`
	Issues        []string `json:"issues"`
}

// FetchUser loads the profile for the given user id. A 404 is reported as
// KindNotFound; other non-2xx statuses as KindServiceUnavailable.
func (g *Gateway) FetchUser(ctx context.Context, userID string) (profile.UserProfile, error) {
	q := url.Values{}
	q.Set("userid", userID)

	body, status, err := g.get(ctx, "/get-user", q)
	if err != nil {
		return profile.UserProfile{}, err
	}
	if status == http.StatusNotFound {
		return profile.UserProfile{}, g.errorFromStatus(status, body, KindNotFound)
	}
	if status != http.StatusOK {
		return profile.UserProfile{}, g.errorFromStatus(status, body, KindServiceUnavailable)
	}

	var resp userResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return profile.UserProfile{}, newError(KindServiceUnavailable, "malformed user response", err)
	}

	return profile.UserProfile{
		ID:              resp.ID,
		Email:           resp.Email,
		DisplayName:     resp.Name,
		AvatarURL:       resp.Avatar,
		Verified:        resp.Verified,
		OrganizationIDs: resp.Organizations,
		ProjectIDs:      resp.Projects,
		IssueIDs:        resp.Issues,
	}, nil
}

// UpdateUser pushes profile edits to the backend. Only fields present in
// the patch are sent; the backend treats absent form fields as unchanged.
func (g *Gateway) UpdateUser(ctx context.Context, sessionID string, patch profile.Patch) error {
	if patch.Password != nil && len(*patch.Password) < minPasswordLength {
		return newError(KindValidation,
			"password must be at least "+strconv.Itoa(minPasswordLength)+" characters", nil)
	}

	form := url.Values{}
	form.Set("sessionid", sessionID)
	if patch.DisplayName != nil {
		form.Set("name", *patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		form.Set("avatar", *patch.AvatarURL)
	}
	if patch.Password != nil {
		form.Set("password", *patch.Password)
	}

	body, status, err := g.doForm(ctx, http.MethodPatch, "/update-user", form)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.errorFromStatus(status, body, KindValidation)
	}

	g.logger.Debug("profile update committed")
	return nil
}

// LogoutRemote asks the backend to invalidate the session. Best effort:
// callers log failures and proceed, local logout must never depend on it.
func (g *Gateway) LogoutRemote(ctx context.Context, sessionID string) error {
	form := url.Values{}
	form.Set("sessionid", sessionID)

	body, status, err := g.postForm(ctx, "/logout", form)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return g.errorFromStatus(status, body, KindServiceUnavailable)
	}
	return nil
}

func (g *Gateway) parseLoginBody(body []byte, email string) (session.LoginPayload, error) {
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return session.LoginPayload{}, newError(KindServiceUnavailable, "malformed login response", err)
	}

	return session.LoginPayload{
		SessionID: resp.SessionID,
		UserID:    resp.UserID,
		Email:     email,
		Verified:  resp.Verified,
		ExpiresAt: parseExpires(resp.Expires),
	}, nil
}

// parseExpires accepts RFC3339 or unix seconds; empty means non-expiring.
func parseExpires(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.Unix(secs, 0)
		return &t
	}
	return nil
}

func (g *Gateway) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	return g.doForm(ctx, http.MethodPost, path, form)
}

func (g *Gateway) doForm(ctx context.Context, method, path string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, newError(KindServiceUnavailable, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return g.do(req)
}

func (g *Gateway) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, newError(KindServiceUnavailable, "failed to build request", err)
	}

	return g.do(req)
}

func (g *Gateway) do(req *http.Request) ([]byte, int, error) {
	if g.deviceID != "" {
		req.Header.Set("X-Device-ID", g.deviceID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, 0, newError(KindServiceUnavailable, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, newError(KindServiceUnavailable, "failed to read response", err)
	}

	return body, resp.StatusCode, nil
}

// errorFromStatus maps a non-2xx response to a typed error: 5xx is always
// service-unavailable, 404 is not-found, and other 4xx use clientKind,
// which varies per operation. The message comes from the JSON "message"
// field or the raw text body.
func (g *Gateway) errorFromStatus(status int, body []byte, clientKind ErrorKind) *Error {
	kind := clientKind
	switch {
	case status >= 500:
		kind = KindServiceUnavailable
	case status == http.StatusNotFound && clientKind != KindInvalidCredentials:
		kind = KindNotFound
	}

	return newError(kind, apiMessage(body), nil)
}

// apiMessage extracts the human-readable message from an error body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
