package httpx

import (
	"net/http"
	"strings"

	"github.com/sharedwealth/memberhub/pkg/jwtx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

// Authenticate verifies a bearer session token if one is presented and
// attaches the resulting AuthContext. Requests without an Authorization
// header continue as anonymous; a presented-but-invalid token is rejected.
// Expired and forged tokens get the same response on purpose — distinguishing
// them would hand an oracle to attackers.
func Authenticate(v *jwtx.Signer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authz, "Bearer ") {
				Fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token verify failed", "err", err)
				Fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx = WithAuthContext(ctx, AuthContext{
				ID:    claims.Subject,
				Email: claims.Email,
				Role:  claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !AuthContextFrom(r.Context()).Authenticated() {
				Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
