package sessionx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sharedwealth/memberhub/pkg/cryptox"
	"github.com/sharedwealth/memberhub/pkg/httpx"
)

// DefaultCookieName is the browser cookie carrying the session id.
const DefaultCookieName = "memberhub_session"

const (
	// defaultIdleTTL bounds how long an untouched session survives. Losing a
	// session only costs the client a fresh anti-forgery token fetch, so the
	// window can be generous without letting the map grow forever.
	defaultIdleTTL = 12 * time.Hour

	// pruneInterval spaces out sweeps so they stay off the hot path.
	pruneInterval = 5 * time.Minute
)

// Manager owns the in-process session map and the middleware that attaches a
// session to every request. It is an injectable instance, not package state,
// so tests construct isolated managers.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	cookieName  string
	idleTTL     time.Duration
	lastCleanup time.Time

	// now is swapped out in tests to step time deterministically.
	now func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		cookieName:  DefaultCookieName,
		idleTTL:     defaultIdleTTL,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Middleware resolves the request's session from its cookie, creating a new
// session (and setting the cookie) when absent. Every downstream handler can
// rely on a session being present in the context.
func (m *Manager) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, created := m.resolve(r)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     m.cookieName,
					Value:    sess.ID(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := WithContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Manager) resolve(r *http.Request) (sess *Session, created bool) {
	now := m.now()

	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		m.mu.Lock()
		m.pruneLocked(now)
		sess = m.sessions[c.Value]
		m.mu.Unlock()
		if sess != nil {
			sess.touch(now)
			return sess, false
		}
	}

	sess = &Session{id: cryptox.MustGenerateToken(cryptox.TokenSize256), lastSeen: now}
	m.mu.Lock()
	m.pruneLocked(now)
	m.sessions[sess.id] = sess
	m.mu.Unlock()
	return sess, true
}

// pruneLocked drops sessions idle past the TTL. Caller holds m.mu. Every
// cookie-less request mints an entry, so without this the map only grows.
func (m *Manager) pruneLocked(now time.Time) {
	if now.Sub(m.lastCleanup) < pruneInterval {
		return
	}
	m.lastCleanup = now

	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
		}
	}
}

type ctxKey struct{}

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or nil if session middleware did
// not run. A nil session downstream of the CSRF guard is a wiring bug, not a
// client error.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
