package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultFileName is the session file name under the user config directory.
const DefaultFileName = "session.json"

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

// FileStore persists the session as a JSON file on disk, the local
// equivalent of the browser client's persisted token storage.
type FileStore struct {
	log  logrus.FieldLogger
	path string
	mu   sync.Mutex
}

// DefaultPath returns the default session file path under the user's
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}

	return filepath.Join(dir, "aura", DefaultFileName), nil
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(log logrus.FieldLogger, path string) *FileStore {
	return &FileStore{
		log:  log.WithField("component", "session_store"),
		path: path,
	}
}

// Load reads the session file, returning ErrNoSession if it does not exist.
func (f *FileStore) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}

		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	return &sess, nil
}

// Save writes the session atomically with owner-only permissions.
func (f *FileStore) Save(sess *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	// Write to a temp file then rename so a crash never leaves a
	// half-written session behind.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}

	f.log.WithField("user_id", sess.User.ID).Debug("Session saved")

	return nil
}

// Clear removes the session file if present.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}

	f.log.Debug("Session cleared")

	return nil
}
