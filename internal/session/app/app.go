package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/quillhaven/quill/internal/session/http"
	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/internal/session/store"
	redisdriver "github.com/quillhaven/quill/internal/session/store/drivers/redis"
	"github.com/quillhaven/quill/internal/session/store/drivers/sqlite"
	"github.com/quillhaven/quill/pkg/jwtx"
	"github.com/quillhaven/quill/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the session service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	sessions store.SessionRecords
	redis    *redisdriver.SessionRecords // nil when backend is sqlite

	tokenService        *service.TokenService
	accountService      *service.AccountService
	housekeepingService *service.HousekeepingService
	federated           service.FederatedVerifier

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. Missing or
// duplicate signing secrets are configuration errors: the process must not
// come up able to mint tokens it cannot tell apart.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "quill-session",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("QUILL_ACCESS_SECRET and QUILL_REFRESH_SECRET must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSessionBackend(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initFederated(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("session service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down session service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("session service stopped")
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

// initSessionBackend picks where the refresh-token slots live. Identities
// always live in sqlite; session records can be moved to redis so revocation
// state is shared across replicas.
func (app *Application) initSessionBackend() error {
	switch app.cfg.SessionBackend {
	case "", "sqlite":
		app.sessions = app.db.SessionRecords()
	case "redis":
		if app.cfg.RedisAddr == "" {
			return errors.New("QUILL_REDIS_ADDR must be set when QUILL_SESSION_BACKEND is redis")
		}
		app.redis = redisdriver.New(app.cfg.RedisAddr, app.cfg.RedisPassword, app.cfg.RedisDB)
		if err := app.redis.Ping(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.sessions = app.redis
	default:
		return fmt.Errorf("unknown session backend %q", app.cfg.SessionBackend)
	}

	app.logger.Info("session backend ready", "backend", app.cfg.SessionBackend)
	return nil
}

func (app *Application) initFederated() error {
	if app.cfg.OIDCIssuer == "" {
		app.logger.Info("federated login disabled: no OIDC issuer configured")
		return nil
	}
	if app.cfg.OIDCClientID == "" {
		return errors.New("QUILL_OIDC_CLIENT_ID must be set when QUILL_OIDC_ISSUER is set")
	}

	provider, err := service.NewFederatedProvider(
		context.Background(),
		app.cfg.OIDCIssuer,
		app.cfg.OIDCClientID,
		app.cfg.OIDCClientSecret,
		app.cfg.OIDCRedirectURL,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize OIDC provider: %w", err)
	}
	app.federated = provider

	app.logger.Info("federated login enabled", "issuer", app.cfg.OIDCIssuer)
	return nil
}

func (app *Application) initServices() error {
	access, err := jwtx.NewSigner([]byte(app.cfg.AccessSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize access signer: %w", err)
	}
	refresh, err := jwtx.NewSigner([]byte(app.cfg.RefreshSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize refresh signer: %w", err)
	}

	app.tokenService = &service.TokenService{
		Access:     access,
		Refresh:    refresh,
		Identities: app.db.Identities(),
		Sessions:   app.sessions,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.accountService = &service.AccountService{Identities: app.db.Identities()}

	app.housekeepingService = service.NewHousekeepingService(
		app.sessions,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(BuildVersion, app.db, app.logger)
	app.router.TokenService = app.tokenService
	app.router.AccountService = app.accountService
	app.router.Federated = app.federated
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
