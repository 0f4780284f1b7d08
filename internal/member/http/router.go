package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sharedwealth/memberhub/internal/member/service"
	"github.com/sharedwealth/memberhub/internal/member/store"
	"github.com/sharedwealth/memberhub/pkg/cachex"
	"github.com/sharedwealth/memberhub/pkg/csrfx"
	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/jwtx"
	"github.com/sharedwealth/memberhub/pkg/sessionx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	sessions     *sessionx.Manager
	guard        *csrfx.Guard
	cache        *cachex.Cache
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	signer *jwtx.Signer,
	sessions *sessionx.Manager,
	guard *csrfx.Guard,
	cache *cachex.Cache,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		sessions:     sessions,
		guard:        guard,
		cache:        cache,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Global chain. Order matters: the session must exist before the CSRF
	// guard runs, and the guard runs before authentication so forged requests
	// are rejected even when they carry a valid bearer token.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.sessions.Middleware(),
		r.guard.Middleware(),
		httpx.Authenticate(r.signer),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCSRF()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	signUpHandler := &SignUpHandler{AuthService: r.AuthService}
	signInHandler := &SignInHandler{AuthService: r.AuthService}
	passwordHandler := &ChangePasswordHandler{AuthService: r.AuthService}

	// Credential endpoints are brute-forceable and get the strict limit.
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(signUpHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(signInHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/password",
		httpx.Chain(passwordHandler,
			httpx.RequireAuth(),
			httpx.RateLimitByCaller(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerCSRF() {
	tokenHandler := &CSRFTokenHandler{Guard: r.guard}
	rotateHandler := &CSRFRotateHandler{Guard: r.guard}

	r.Mux.Handle("GET /v1/csrf",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/csrf/rotate",
		httpx.Chain(rotateHandler,
			httpx.RequireAuth(),
			httpx.RateLimitByCaller(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	getHandler := &GetUserHandler{UserService: r.UserService}
	updateHandler := &UpdateUserHandler{UserService: r.UserService, AuthService: r.AuthService}

	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(getHandler,
			httpx.RequireAuth(),
			httpx.RateLimitByCaller(httpx.LenientLimit),
			cachex.Middleware(r.cache, userCacheKey),
		),
	)
	r.Mux.Handle("PUT /v1/users/{id}",
		httpx.Chain(updateHandler,
			httpx.RequireAuth(),
			httpx.RateLimitByCaller(httpx.LenientLimit),
			cachex.Invalidation(r.cache, userCachePattern),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// userCacheKey scopes the cached profile to the requested id AND the caller
// identity so a response can never cross identities.
func userCacheKey(req *http.Request) string {
	return cachex.Key(cachex.KindUser, req.PathValue("id"),
		httpx.AuthContextFrom(req.Context()).Identity())
}

// userCachePattern invalidates the profile for every caller identity after a
// successful write.
func userCachePattern(req *http.Request) string {
	return cachex.Pattern(cachex.KindUser, req.PathValue("id"))
}
