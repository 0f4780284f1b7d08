package httpx

import "context"

// AuthContext is the per-request caller identity, constructed once by the
// authentication middleware and threaded explicitly through the request
// context. The zero value is the anonymous caller.
type AuthContext struct {
	ID    string
	Email string
	Role  string
}

// Authenticated reports whether the request carries a verified identity.
func (a AuthContext) Authenticated() bool { return a.ID != "" }

// Identity returns the caller id, or "anonymous" for unauthenticated
// requests. Used for identity-scoped cache keys.
func (a AuthContext) Identity() string {
	if a.ID == "" {
		return "anonymous"
	}
	return a.ID
}

type ctxKey struct{}

func WithAuthContext(ctx context.Context, a AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// AuthContextFrom returns the request's AuthContext, anonymous if none was set.
func AuthContextFrom(ctx context.Context) AuthContext {
	a, ok := ctx.Value(ctxKey{}).(AuthContext)
	if !ok {
		return AuthContext{}
	}
	return a
}
