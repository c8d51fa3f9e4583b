// Package app assembles the auth service: configuration, storage,
// mail, blob and chat backends, the service layer and the HTTP server.
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
	"time"

	"github.com/ironwall/authd/internal/auth/blob"
	"github.com/ironwall/authd/internal/auth/chat"
	httpapi "github.com/ironwall/authd/internal/auth/http"
	"github.com/ironwall/authd/internal/auth/mail"
	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/internal/auth/store/drivers/sqlite"
	"github.com/ironwall/authd/internal/auth/store/pending"
	"github.com/ironwall/authd/pkg/jwtx"
	"github.com/ironwall/authd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	pending *pending.Store
	mailer  mail.Mailer
	blobs   blob.Storage
	relay   chat.Relay
	tokens  *jwtx.HS256

	service *service.Service

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.Secret == "" {
		return nil, errors.New("AUTH_SECRET must be set")
	}
	app.tokens = jwtx.NewHS256([]byte(cfg.Secret), cfg.Issuer)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initBackends(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initService()
	app.initHTTP()

	if cfg.SeedUsers {
		if err := app.seedUsers(context.Background()); err != nil {
			app.logger.Error("seeding demo users failed", "error", err)
		}
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down auth service...")

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

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
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

// initBackends sets up the mail, blob and chat collaborators. Each one
// degrades to a stub when unconfigured so the core auth flow keeps
// working in minimal deployments.
func (app *Application) initBackends() error {
	if app.cfg.SMTP.Configured() {
		mailer := mail.NewSMTPMailer(app.cfg.SMTP, app.logger)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := mailer.Verify(ctx); err != nil {
			// Keep starting: the dispatch policy decides whether sends
			// fail the flow later.
			app.logger.Warn("smtp verification failed", "host", app.cfg.SMTP.Host, "error", err)
		} else {
			app.logger.Info("smtp connection verified", "host", app.cfg.SMTP.Host)
		}
		app.mailer = mailer
	} else {
		app.logger.Warn("no smtp relay configured, verification codes will be logged")
		app.mailer = mail.NewLogMailer(app.logger)
	}

	if app.cfg.Blob.Configured() {
		storage, err := blob.NewS3Storage(context.Background(), app.cfg.Blob, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize blob storage: %w", err)
		}
		app.blobs = storage
		app.logger.Info("avatar storage configured", "bucket", app.cfg.Blob.Bucket)
	} else {
		app.logger.Warn("no object store configured, avatar endpoints disabled")
		app.blobs = blob.Disabled{}
	}

	app.relay = chat.NewClient(app.cfg.Chat, app.logger)
	if app.cfg.Chat.APIKey == "" {
		app.logger.Warn("no chat api key configured, assistant endpoint disabled")
	}

	return nil
}

func (app *Application) initService() {
	app.pending = pending.NewStore()
	app.service = service.New(
		service.Config{
			OTPTTL:         app.cfg.OTPTTL,
			PendingMaxAge:  app.cfg.PendingMaxAge,
			DispatchPolicy: app.cfg.DispatchPolicy,
			SessionTTL:     app.cfg.SessionTTL,
			Issuer:         app.cfg.Issuer,
		},
		app.db,
		app.pending,
		app.mailer,
		app.blobs,
		app.relay,
		app.tokens,
		app.logger,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.service,
		app.cfg.AllowedOrigins,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
