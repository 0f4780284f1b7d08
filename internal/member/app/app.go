package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/sharedwealth/memberhub/internal/member/http"
	"github.com/sharedwealth/memberhub/internal/member/service"
	"github.com/sharedwealth/memberhub/internal/member/store"
	"github.com/sharedwealth/memberhub/internal/member/store/drivers/sqlite"
	"github.com/sharedwealth/memberhub/pkg/cachex"
	"github.com/sharedwealth/memberhub/pkg/cryptox"
	"github.com/sharedwealth/memberhub/pkg/csrfx"
	"github.com/sharedwealth/memberhub/pkg/jwtx"
	"github.com/sharedwealth/memberhub/pkg/sessionx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the member service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.Signer
	sessions *sessionx.Manager
	guard    *csrfx.Guard
	cache    *cachex.Cache

	authService *service.AuthService
	userService *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "member-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	signer, err := jwtx.NewSigner(cfg.JWTSecret, cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	// Credential endpoints are exempt from the anti-forgery check: a client
	// cannot hold a token before its first session round-trip completes.
	guard, err := csrfx.NewGuard(cfg.CSRFKey, "/v1/auth/signup", "/v1/auth/signin")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize anti-forgery guard: %w", err)
	}
	app.guard = guard

	app.sessions = sessionx.NewManager()
	app.cache = cachex.New(cfg.CacheTTL)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("member service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down member service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("member service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.authService = service.NewAuthService(app.db, app.signer, app.logger)
	app.userService = service.NewUserService(app.db, app.logger)
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(
		app.signer,
		app.sessions,
		app.guard,
		app.cache,
		BuildVersion,
		app.db,
		app.logger,
	)
	app.router.AuthService = app.authService
	app.router.UserService = app.userService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
