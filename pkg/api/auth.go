package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/aura-platform/aura-cli/pkg/session"
)

// validate checks outgoing payloads before they reach the backend.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Login authenticates with email and password and stores the resulting
// session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var resp AuthResponse

	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, pathLogin, req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return c.establishSession(&resp)
}

// Signup registers a new account and stores the resulting session. The
// request is validated locally so malformed input fails before the network.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*session.Session, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid signup request: %w", err)
	}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, pathSignup, req, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	return c.establishSession(&resp)
}

// Logout clears the stored session. The backend call is best-effort: the
// local session is removed even when the server is unreachable.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, pathLogout, nil, nil); err != nil {
		c.log.WithError(err).Debug("Logout call failed, clearing local session anyway")
	}

	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	c.log.Info("Logged out")

	return nil
}

// establishSession validates and persists the session from an auth response.
func (c *Client) establishSession(resp *AuthResponse) (*session.Session, error) {
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("auth response missing tokens")
	}

	if !resp.User.Role.Valid() {
		return nil, fmt.Errorf("auth response carries unknown role %q", resp.User.Role)
	}

	sess := &session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}

	if err := c.store.Save(sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"user_id": sess.User.ID,
		"role":    sess.User.Role,
	}).Info("Session established")

	return sess, nil
}
