package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-platform/aura-cli/pkg/session"
)

func TestLoginEstablishesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ta@example.edu", req.Email)

		writeAuthResponse(w, session.RoleTA)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	client := NewClient(testLogger(), &Config{BaseURL: srv.URL}, store)

	sess, err := client.Login(context.Background(), "ta@example.edu", "secret")

	require.NoError(t, err)
	assert.Equal(t, session.RoleTA, sess.User.Role)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sess.AccessToken, stored.AccessToken)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeAuthResponse(w, session.Role("superuser"))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	client := NewClient(testLogger(), &Config{BaseURL: srv.URL}, store)

	_, err := client.Login(context.Background(), "x@example.edu", "secret")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")

	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, session.ErrNoSession, "a bad auth response must not be persisted")
}

func TestSignupValidatesBeforeSending(t *testing.T) {
	hit := false

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hit = true
	}))
	defer srv.Close()

	client := NewClient(testLogger(), &Config{BaseURL: srv.URL}, session.NewMemoryStore())

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"missing email", SignupRequest{Password: "longenough", Name: "A", Role: session.RoleStudent}},
		{"bad email", SignupRequest{Email: "not-an-email", Password: "longenough", Name: "A", Role: session.RoleStudent}},
		{"short password", SignupRequest{Email: "a@b.edu", Password: "short", Name: "A", Role: session.RoleStudent}},
		{"bad role", SignupRequest{Email: "a@b.edu", Password: "longenough", Name: "A", Role: "root"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Signup(context.Background(), tc.req)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid signup request")
		})
	}

	assert.False(t, hit, "invalid requests must fail before the network")
}

func TestLogoutClearsSessionEvenWhenBackendFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := seededStore(t, "tok", "r")
	client := NewClient(testLogger(), &Config{BaseURL: srv.URL}, store)

	require.NoError(t, client.Logout(context.Background()))

	_, err := store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func writeAuthResponse(w http.ResponseWriter, role session.Role) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(AuthResponse{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         session.User{ID: "u1", Email: "ta@example.edu", Name: "TA", Role: role},
	})
}
