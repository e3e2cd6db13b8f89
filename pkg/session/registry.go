// Package session holds server-side state for authenticated users: a
// mutex-guarded registry with sliding expiry, a periodic cleanup sweep,
// and the jwt-backed token capability the request layer authenticates
// with.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrDuplicate is returned when registering a session id that already
	// exists.
	ErrDuplicate = errors.New("session already registered")
	// ErrNotFound is returned when a session id is absent.
	ErrNotFound = errors.New("session not found")
)

// Session is one authenticated login. The identity fields are set once at
// authentication time and are read-only for the rest of the session's
// life; only the access timestamps move, and only under the registry's
// lock.
type Session struct {
	ID            string
	Login         string
	UserID        string
	SiteID        string
	Superuser     bool
	PreferenceSet string

	FirstAccess time.Time
	LastAccess  time.Time
}

// Registry is a concurrent map of login sessions with sliding expiry.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	timeout  time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry with the given idle timeout. A
// non-positive timeout falls back to the default (one hour).
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		now:      time.Now,
	}
}

// Register stores s and stamps both access times to now. A session with
// the same id must not already exist.
func (r *Registry) Register(s *Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: missing session id", ErrNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, s.ID)
	}
	now := r.now()
	s.FirstAccess = now
	s.LastAccess = now
	r.sessions[s.ID] = s
	return nil
}

// Find returns the session with the given id.
func (r *Registry) Find(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Unregister removes the session. Removing an absent id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// IsExpired reports whether s has been idle longer than the configured
// timeout. A negative idle age means clock skew and counts as expired.
// When the session is live and refresh is set, LastAccess slides to now.
func (r *Registry) IsExpired(s *Session, refresh bool) bool {
	if s == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	age := now.Sub(s.LastAccess)
	if age < 0 || age > r.timeout {
		return true
	}
	if refresh {
		s.LastAccess = now
	}
	return false
}

// Cleanup removes every expired session in one O(n) sweep and returns the
// number removed. Intended to run periodically, not on every request.
func (r *Registry) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		age := now.Sub(s.LastAccess)
		if age < 0 || age > r.timeout {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of registered sessions, expired or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
