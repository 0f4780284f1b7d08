package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sharedwealth/memberhub/pkg/idx"
)

// RequestIDHeader carries the request correlation id. A gateway-supplied id
// is honored; otherwise one is minted here.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware attaches a request-scoped logger to the context and emits a
// single completion line per request. The request id is echoed on the
// response so client and server logs can be correlated from either side.
// Completion lines are leveled by outcome: server errors log at error, client
// errors at warn, everything else at info.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = idx.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			log := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(WithContext(r.Context(), log)))

			line := log.Info
			switch {
			case sw.code >= http.StatusInternalServerError:
				line = log.Error
			case sw.code >= http.StatusBadRequest:
				line = log.Warn
			}
			line("request served",
				"status", sw.code,
				"remote_addr", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter

	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
