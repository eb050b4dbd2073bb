// Package session holds the account session the auth collaborator produces.
// The catalog core only reads it.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Session identifies the signed-in account. The zero value means anonymous.
type Session struct {
	ID        string `toml:"session_id"`
	AccountID int64  `toml:"account_id"`
}

// Active reports whether a session id is present.
func (s Session) Active() bool {
	return strings.TrimSpace(s.ID) != ""
}

// Source supplies the current session.
type Source interface {
	Current() Session
}

// Static is a fixed Source, mostly useful in tests and one-shot CLI commands.
type Static Session

// Current implements Source.
func (s Static) Current() Session {
	return Session(s)
}

// Holder is the process-wide session slot. Writes belong to the login flow
// (or the session file watcher); everything else reads.
type Holder struct {
	mu      sync.RWMutex
	current Session
	version uint64
}

var _ Source = (*Holder)(nil)

// Current implements Source.
func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Version increments each time Set changes the session.
func (h *Holder) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

// Set replaces the session and reports whether it changed.
func (h *Holder) Set(s Session) bool {
	s.ID = strings.TrimSpace(s.ID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == s {
		return false
	}
	h.current = s
	h.version++
	return true
}

// Clear drops the session (logout).
func (h *Holder) Clear() bool {
	return h.Set(Session{})
}

// LoadFile reads a session.toml written by the login flow. A missing file is
// an anonymous session, not an error.
func LoadFile(path string) (Session, error) {
	if strings.TrimSpace(path) == "" {
		return Session{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	s.ID = strings.TrimSpace(s.ID)
	return s, nil
}

// RemoveFile deletes the session file after logout. Missing files are ignored.
func RemoveFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// ErrNoSession is returned by session-gated operations when nobody is signed in.
var ErrNoSession = errors.New("no active session")
