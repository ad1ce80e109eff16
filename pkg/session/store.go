package session

import (
	"errors"
	"sync"
)

// ErrNoSession indicates no session has been stored yet.
var ErrNoSession = errors.New("no stored session")

// Store persists the single live session between runs.
type Store interface {
	// Load returns the stored session, or ErrNoSession if none exists.
	Load() (*Session, error)

	// Save replaces the stored session.
	Save(sess *Session) error

	// Clear removes the stored session. Clearing an empty store is not
	// an error.
	Clear() error
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store in memory. Used in tests and by embedders
// that manage persistence themselves.
type MemoryStore struct {
	mu   sync.RWMutex
	sess *Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session, or ErrNoSession if none exists.
func (m *MemoryStore) Load() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.sess == nil {
		return nil, ErrNoSession
	}

	// Return a copy so callers cannot mutate the stored session.
	sessCopy := *m.sess

	return &sessCopy, nil
}

// Save replaces the stored session.
func (m *MemoryStore) Save(sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessCopy := *sess
	m.sess = &sessCopy

	return nil
}

// Clear removes the stored session.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sess = nil

	return nil
}
