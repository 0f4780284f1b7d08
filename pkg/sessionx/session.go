// Package sessionx provides the per-request session bag the CSRF guard binds
// its secret to. Sessions are opaque-cookie keyed and stored in process
// memory; the guard only ever touches the CSRF-secret slot, so a shared
// session backend can replace this without touching the guard.
package sessionx

import (
	"sync"
	"time"
)

// Session is a per-user mutable bag. The only slot this core defines is the
// CSRF secret; access is serialized because concurrent requests can share a
// session.
type Session struct {
	id string

	mu         sync.Mutex
	csrfSecret string
	lastSeen   time.Time
}

// ID returns the opaque session identifier (the cookie value).
func (s *Session) ID() string { return s.id }

// CSRFSecret returns the session's current anti-forgery secret, empty if none
// has been issued yet.
func (s *Session) CSRFSecret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.csrfSecret
}

// SetCSRFSecret stores a new anti-forgery secret, replacing any previous one.
// All tokens signed for the previous secret become invalid.
func (s *Session) SetCSRFSecret(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrfSecret = secret
}

// CompareAndSetCSRFSecret sets the secret only if none exists yet and returns
// the session's secret either way. Keeps lazy initialization idempotent when
// two requests race on first touch.
func (s *Session) CompareAndSetCSRFSecret(secret string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.csrfSecret == "" {
		s.csrfSecret = secret
	}
	return s.csrfSecret
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
