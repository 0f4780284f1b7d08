package csrfx

import (
	"net/http"

	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/sessionx"
)

// safeMethods never mutate state and pass through unguarded.
var safeMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// Middleware guards state-changing requests. It must be mounted after the
// session middleware: a missing session here is a wiring error and responds
// 500, while every client-attributable failure responds 403 with a stable
// reason code.
func (g *Guard) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := safeMethods[r.Method]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := g.exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			sess := sessionx.FromContext(r.Context())
			if sess == nil {
				httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			token := extractToken(r)
			if err := g.Check(token, sess.CSRFSecret()); err != nil {
				reason := ReasonMalformedToken
				if rej, ok := err.(*Rejection); ok {
					reason = rej.Reason
				}
				httpx.FailReason(w, http.StatusForbidden, "Invalid CSRF token", reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken checks header, then body, then query — in that priority order.
func extractToken(r *http.Request) string {
	if t := r.Header.Get(HeaderName); t != "" {
		return t
	}
	if t := r.PostFormValue(FieldName); t != "" {
		return t
	}
	return r.URL.Query().Get(FieldName)
}
