package session

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func sampleSession() *Session {
	return &Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: User{
			ID:    "u1",
			Email: "student@example.edu",
			Name:  "Sample Student",
			Role:  RoleStudent,
		},
	}
}

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleStudent, true},
		{RoleTA, true},
		{RoleInstructor, true},
		{RoleAdmin, true},
		{Role(""), false},
		{Role("superuser"), false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.role.Valid(), "role %q", tc.role)
	}
}

func TestAuthenticated(t *testing.T) {
	assert.False(t, (*Session)(nil).Authenticated())
	assert.False(t, (&Session{}).Authenticated())
	assert.True(t, sampleSession().Authenticated())
}

func TestTokenExpiry(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	sess := &Session{AccessToken: signed}

	got, err := sess.TokenExpiry()
	require.NoError(t, err)
	assert.True(t, got.Equal(expiry))
}

func TestTokenExpiryWithoutClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	sess := &Session{AccessToken: signed}

	_, err = sess.TokenExpiry()
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestTokenExpiryMalformedToken(t *testing.T) {
	sess := &Session{AccessToken: "not-a-jwt"}

	_, err := sess.TokenExpiry()
	assert.Error(t, err)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(sampleSession()))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), loaded)

	// Mutating the loaded copy must not affect the stored session.
	loaded.AccessToken = "tampered"

	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", again.AccessToken)

	require.NoError(t, store.Clear())

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(testLogger(), path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(sampleSession()))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), loaded)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "tokens must not be world-readable")
	}

	require.NoError(t, store.Clear())

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing twice is not an error.
	assert.NoError(t, store.Clear())
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(testLogger(), path)

	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing session file")
}
