package cachex

import (
	"net/http"

	"github.com/sharedwealth/memberhub/pkg/httpx"
)

// Entity kinds used as cache key prefixes.
const (
	KindUser = "user"
	KindOrg  = "org"
)

// Key builds the canonical entry key for one entity as seen by one caller:
// "<kind>:<id>:<identity>". Responses are identity-scoped because the same
// resource can render differently per caller, and a cached response must never
// leak across identities.
func Key(kind, id, identity string) string {
	return kind + ":" + id + ":" + identity
}

// Pattern builds the invalidation pattern covering an entity across every
// caller identity.
func Pattern(kind, id string) string {
	return kind + ":" + id + ":*"
}

// RequestKey derives the entry key for a cacheable request from its path,
// query, and the caller's identity ("anonymous" when unauthenticated).
func RequestKey(r *http.Request) string {
	key := r.URL.Path
	if q := r.URL.Query().Encode(); q != "" {
		key += "?" + q
	}
	return key + ":" + httpx.AuthContextFrom(r.Context()).Identity()
}
