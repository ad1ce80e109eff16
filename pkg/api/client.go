// Package api is the HTTP client for the AURA backend. It attaches the
// session's bearer token to every request and transparently recovers from
// token expiry with a single refresh-and-replay.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/aura-platform/aura-cli/pkg/session"
)

const (
	// DefaultTimeout is the default per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the client to the backend.
	DefaultUserAgent = "aura-cli"
)

// Backend API paths.
const (
	pathLogin     = "/auth/login"
	pathSignup    = "/auth/signup"
	pathRefresh   = "/auth/refresh"
	pathLogout    = "/auth/logout"
	pathChatAsk   = "/chat/ask"
	pathTaskFmt   = "/task/%s/status"
	pathKBSearch  = "/kb/search"
	pathKBDocs    = "/kb/documents"
	pathCourseFmt = "/analytics/courses/%s"
	pathDeckGen   = "/decks/generate"
	pathDeckFmt   = "/decks/%s"
)

// errNoRefreshToken marks a 401 that cannot be recovered because there is
// no refresh token to exchange; the original 401 is propagated instead.
var errNoRefreshToken = errors.New("no refresh token available")

// Config holds client configuration.
type Config struct {
	// BaseURL is the backend base URL, e.g. https://api.aura.example.
	BaseURL string

	// Timeout bounds any single request including the response body read.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RateLimit caps outgoing requests per second. Zero disables the
	// limiter.
	RateLimit float64

	// RateBurst is the limiter burst size when RateLimit is set.
	RateBurst int
}

// GetTimeout returns the configured timeout or the default.
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}

	return c.Timeout
}

// Client is an authenticated HTTP client for the AURA backend.
type Client struct {
	log        logrus.FieldLogger
	cfg        *Config
	httpClient *http.Client
	store      session.Store
	limiter    *rate.Limiter
	userAgent  string

	// refreshMu serializes token refreshes: concurrent requests that
	// fault on the same expired token produce a single refresh call, and
	// the losers pick up the rotated token instead of refreshing again.
	refreshMu sync.Mutex

	// OnSessionExpired is invoked once when a refresh fails and the
	// session is cleared, so the caller can prompt for re-authentication.
	OnSessionExpired func()
}

// NewClient creates a client for the backend at cfg.BaseURL, reading and
// writing the session through store.
func NewClient(log logrus.FieldLogger, cfg *Config, store session.Store) *Client {
	c := &Client{
		log:   log.WithField("component", "api_client"),
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		userAgent: cfg.UserAgent,
	}

	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return c
}

// Session returns the current stored session, or nil if none exists.
func (c *Client) Session() *session.Session {
	sess, err := c.store.Load()
	if err != nil {
		return nil
	}

	return sess
}

// do performs an authenticated request and decodes the JSON response into
// out. A single 401 is recovered by refreshing the token pair and replaying
// the request once; any further 401 is returned to the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var payload []byte

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		payload = data
	}

	token := c.currentToken()

	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Keep the original failure in case refresh is not possible.
		originalErr := decodeAPIError(resp)

		newToken, recoverErr := c.recoverAuth(ctx, token)
		if recoverErr != nil {
			if errors.Is(recoverErr, errNoRefreshToken) {
				return originalErr
			}

			return recoverErr
		}

		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Debug("Replaying request after token refresh")

		resp, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return err
		}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// send issues a single request. The bearer token is attached only when
// non-empty; unauthenticated requests go out bare.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	fullURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// currentToken returns the stored access token, or empty if there is no
// session.
func (c *Client) currentToken() string {
	sess, err := c.store.Load()
	if err != nil {
		return ""
	}

	return sess.AccessToken
}

// recoverAuth exchanges the refresh token for a new token pair. usedToken is
// the access token the faulting request went out with; if the stored token
// already differs, another request refreshed first and its token is reused
// without a second refresh call.
func (c *Client) recoverAuth(ctx context.Context, usedToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	sess, err := c.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", errNoRefreshToken
		}

		return "", fmt.Errorf("loading session: %w", err)
	}

	if sess.AccessToken != "" && sess.AccessToken != usedToken {
		c.log.Debug("Token already rotated by a concurrent refresh")

		return sess.AccessToken, nil
	}

	if sess.RefreshToken == "" {
		return "", errNoRefreshToken
	}

	pair, err := c.refreshTokens(ctx, sess.RefreshToken)
	if err != nil {
		c.expireSession(err)

		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	sess.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		sess.RefreshToken = pair.RefreshToken
	}

	if err := c.store.Save(sess); err != nil {
		// The in-flight replay can still use the new token; only the
		// persisted copy is stale.
		c.log.WithError(err).Error("Failed to persist refreshed session")
	}

	c.log.Debug("Access token refreshed")

	return pair.AccessToken, nil
}

// refreshTokens calls the refresh endpoint directly, outside the normal
// request path so it can never recurse into another refresh.
func (c *Client) refreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("encoding refresh request: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, pathRefresh, payload, "")
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}

	if pair.AccessToken == "" {
		return nil, errors.New("refresh response contained no access token")
	}

	return &pair, nil
}

// expireSession clears the stored session and notifies the embedder. This
// is a deliberate global effect: any concurrent request relying on the
// cleared session will subsequently fail as unauthenticated.
func (c *Client) expireSession(cause error) {
	if err := c.store.Clear(); err != nil {
		c.log.WithError(err).Error("Failed to clear session")
	}

	c.log.WithError(cause).Warn("Session expired, re-authentication required")

	if c.OnSessionExpired != nil {
		c.OnSessionExpired()
	}
}

// decodeAPIError reads a non-2xx response body into an APIError. The body
// is consumed and closed.
func decodeAPIError(resp *http.Response) *APIError {
	defer func() { _ = resp.Body.Close() }()

	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var parsed struct {
		Code    string `json:"code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))

		return apiErr
	}

	apiErr.Code = parsed.Code
	apiErr.Message = parsed.Message

	if apiErr.Message == "" {
		apiErr.Message = parsed.Error
	}

	return apiErr
}
