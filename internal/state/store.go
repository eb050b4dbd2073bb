package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/marquee/internal/tmdb"
)

// Snapshot is the account-level data shared between the session watcher and
// the UI.
type Snapshot struct {
	Account             tmdb.Account
	HasAccount          bool
	SessionVersion      uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // refreshes that failed in a row
}

// IsOffline returns true when the API has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// SignedIn reports whether an account is bound to the current session.
func (s Snapshot) SignedIn() bool {
	return s.HasAccount && s.Account.ID > 0
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the account for session version. A nil account means the
// session is anonymous. When err is non-nil the previous account is kept and
// the error recorded.
func (s *Store) Update(version uint64, account *tmdb.Account, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.SessionVersion = version
	if account != nil {
		s.snapshot.Account = *account
		s.snapshot.HasAccount = true
	} else {
		s.snapshot.Account = tmdb.Account{}
		s.snapshot.HasAccount = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
