// Package session persists the authenticated session (signed cookie + role)
// between Hostdesk invocations. The cookie is minted and verified by the
// backend; the client only stores and replays it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the client-held authentication state.
type Session struct {
	Cookie string `json:"cookie"`
	Role   string `json:"role"`
}

// Valid reports whether the session carries a cookie and a known role.
func (s *Session) Valid() bool {
	if s == nil || s.Cookie == "" {
		return false
	}
	return s.Role == "owner" || s.Role == "cleaner"
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session. A missing file returns (nil, nil):
// not logged in is not an error.
func (st *Store) Load() (*Session, error) {
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", st.path, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", st.path, err)
	}
	if !s.Valid() {
		return nil, nil
	}
	return &s, nil
}

// Save writes the session with owner-only permissions.
func (st *Store) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", st.path, err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is a no-op.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
