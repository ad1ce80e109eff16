// Package session holds the authenticated user session and its persistence.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the platform role assigned to a user.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTA         Role = "ta"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the known platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTA, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the user record returned by the backend on login.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Name is the user's display name.
	Name string `json:"name,omitempty"`

	// Role is the user's platform role.
	Role Role `json:"role"`
}

// Session holds the tokens and user record for the current login.
// It is written only by the login, logout and token-refresh paths;
// everything else treats it as read-only.
type Session struct {
	// AccessToken is the bearer token attached to outgoing requests.
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged for a new token pair when the access
	// token expires.
	RefreshToken string `json:"refresh_token"`

	// User is the authenticated user.
	User User `json:"user"`
}

// Authenticated reports whether the session carries an access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// ErrNoExpiry indicates the access token carries no expiry claim.
var ErrNoExpiry = errors.New("access token has no expiry claim")

// TokenExpiry decodes the access token locally and returns its expiry.
// The signature is NOT verified; this is for display and diagnostics only,
// the backend remains the authority on token validity.
func (s *Session) TokenExpiry() (time.Time, error) {
	claims := jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, &claims); err != nil {
		return time.Time{}, err
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}

	return claims.ExpiresAt.Time, nil
}
