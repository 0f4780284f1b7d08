package cachex

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

// KeyFunc derives the cache key for a request. Route-specific funcs build
// entity-shaped keys via Key; RequestKey is the generic fallback.
type KeyFunc func(*http.Request) string

// cachedResponse is what the middleware stores: enough to replay the response
// byte-for-byte, headers included.
type cachedResponse struct {
	status int
	header http.Header
	body   []byte
}

// Middleware serves GET requests from the cache and stores successful
// responses on miss. Only 200 responses are cached; errors and non-GET
// methods always pass through.
func Middleware(c *Cache, key KeyFunc) httpx.Middleware {
	if key == nil {
		key = RequestKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			k := key(r)
			if v, ok := c.Get(k); ok {
				if resp, ok := v.(*cachedResponse); ok {
					replay(w, resp)
					return
				}
				// Foreign value under our key: drop it and fall through.
				c.Delete(k)
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				c.Set(k, &cachedResponse{
					status: rec.status,
					header: rec.Header().Clone(),
					body:   rec.body.Bytes(),
				})
			}
		})
	}
}

// Invalidation runs after the wrapped handler and, when it succeeded, removes
// every cache entry matching the patterns derived from the request. Mount on
// mutating routes so stale reads cannot outlive a write.
func Invalidation(c *Cache, patterns ...func(*http.Request) string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status > 299 {
				return
			}
			for _, fn := range patterns {
				p := fn(r)
				if n := c.Invalidate(p); n > 0 {
					slogx.FromContext(r.Context()).Debug("cache invalidated",
						slog.String("pattern", p),
						slog.Int("entries", n),
					)
				}
			}
		})
	}
}

func replay(w http.ResponseWriter, resp *cachedResponse) {
	// Headers the current pipeline already set (request id and the like) stay
	// per-request; everything else comes from the recorded response.
	for key, values := range resp.header {
		if _, exists := w.Header()[key]; exists {
			continue
		}
		w.Header()[key] = append([]string(nil), values...)
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

// recorder tees the response so the middleware can capture status and body
// while still writing through to the client.
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
