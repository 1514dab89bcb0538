package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/classifier"
	httpapi "github.com/quantumsec/phishguard/internal/dashboard/http"
	"github.com/quantumsec/phishguard/internal/dashboard/service"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/internal/dashboard/store/drivers/sqlite"
	"github.com/quantumsec/phishguard/pkg/cryptox"
	"github.com/quantumsec/phishguard/pkg/jwtx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// devJWTSecret keeps local development working without any env setup.
	// Startup in any non-dev environment refuses to run on it.
	devJWTSecret = "dev-insecure-jwt-secret"
)

// Application encapsulates the dashboard gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.HS256

	authService       *service.AuthService
	predictionService *service.PredictionService
	adminService      *service.AdminService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "phishguard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	secret := app.cfg.JWTSecret
	if secret == "" {
		if app.cfg.Env != "dev" {
			return nil, fmt.Errorf("PHISHGUARD_JWT_SECRET is required when ENV=%s", app.cfg.Env)
		}
		app.logger.Warn("PHISHGUARD_JWT_SECRET not set, using insecure dev secret")
		secret = devJWTSecret
	}
	app.tokens = jwtx.NewHS256([]byte(secret), app.cfg.Issuer)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("phishguard dashboard starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"ml_url", app.cfg.MLServiceURL,
	)

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
	app.logger.Info("shutting down phishguard dashboard...")

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

	app.logger.Info("phishguard dashboard stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		Signer:     app.tokens,
		Issuer:     app.cfg.Issuer,
		SessionTTL: jwtx.DefaultSessionTTL,
	}

	app.predictionService = &service.PredictionService{
		Store: app.db,
		Classifier: classifier.NewClient(classifier.Config{
			BaseURL: app.cfg.MLServiceURL,
			Timeout: app.cfg.MLTimeout,
		}),
	}

	app.adminService = &service.AdminService{Store: app.db}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		app.cfg.AllowedOrigin,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.PredictionService = app.predictionService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
