// Package server composes the flava dependencies and runs the HTTP API and
// the gRPC health service until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/flava/internal/dbx"
	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server/auth"
	"github.com/dmitrijs2005/flava/internal/server/cache"
	"github.com/dmitrijs2005/flava/internal/server/config"
	handler "github.com/dmitrijs2005/flava/internal/server/handler/http"
	"github.com/dmitrijs2005/flava/internal/server/mail"
	"github.com/dmitrijs2005/flava/internal/server/repositories/memory"
	"github.com/dmitrijs2005/flava/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flava/internal/server/services"
	"github.com/dmitrijs2005/flava/internal/server/storage"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/flava/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	cache    *cache.Cache
	notifier *mail.Notifier
	handler  http.Handler
	health   *gs.HealthServer
}

// NewApp wires storage, cache, mail, image storage, token codecs and the
// services behind the router. An empty DatabaseDSN runs on the in-memory
// store.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	db, rm, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := auth.NewCodec([]byte(cfg.SecretKey), cfg.SigningAlgorithm)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("session codec: %w", err)
	}
	actions, err := auth.NewCodec([]byte(cfg.ActionSecretKey), cfg.SigningAlgorithm)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("action codec: %w", err)
	}

	images, err := app.imageStore(ctx)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	app.cache = app.newCache(ctx)
	app.notifier = mail.NewNotifier(app.newSender(ctx), mail.Templates{
		VerificationID:   cfg.VerificationTemplateID,
		PasswordResetID:  cfg.PasswordResetTemplateID,
		VerificationLink: cfg.VerificationLink,
		PasswordResetURL: cfg.PasswordResetLink,
	}, logger.With("module", "mail"))

	us := services.NewUserService(db, rm, services.Tokens{
		Hasher:     auth.NewHasher(bcrypt.DefaultCost),
		Sessions:   sessions,
		Actions:    actions,
		SessionTTL: cfg.AccessTokenValidityDuration,
	}, app.notifier, logger.With("module", "users"))
	rs := services.NewRecipeService(db, rm, app.cache, images, logger.With("module", "recipes"))

	app.handler = handler.NewRouter(us, rs, logger.With("module", "http"))

	var pinger gs.Pinger
	if app.db != nil {
		pinger = app.db
	}
	app.health = gs.NewHealthServer(cfg.GRPCAddr, pinger, logger)

	return app, nil
}

func (app *App) openStore(ctx context.Context) (dbx.DB, repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, using in-memory store")
		return memory.DB{}, repomanager.NewMemoryRepositoryManager(memory.NewStore()), nil
	}

	db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	app.db = db
	return dbx.NewSQLDB(db), rm, nil
}

func (app *App) newCache(ctx context.Context) *cache.Cache {
	addr := app.config.CacheAddr()
	if addr == "" {
		app.logger.Info(ctx, "cache disabled")
		return cache.Disabled(app.logger)
	}
	return cache.New(ctx, cache.Options{Addr: addr, Password: app.config.CachePassword}, app.logger.With("module", "cache"))
}

func (app *App) newSender(ctx context.Context) mail.Sender {
	if app.config.MailAPIKey == "" {
		app.logger.Warn(ctx, "no mail provider configured, emails will only be logged")
		return mail.LogSender{Logger: app.logger}
	}
	return mail.NewCourierSender(app.config.MailEndpoint, app.config.MailAPIKey)
}

// imageStore returns nil (not a typed nil) when images are disabled.
func (app *App) imageStore(ctx context.Context) (services.ImageStore, error) {
	if app.config.S3Bucket == "" {
		app.logger.Info(ctx, "no bucket configured, recipe images disabled")
		return nil, nil
	}
	p, err := storage.NewPresigner(ctx, storage.Config{
		Region:       app.config.S3Region,
		AccessKey:    app.config.S3RootUser,
		SecretKey:    app.config.S3RootPassword,
		BaseEndpoint: app.config.S3BaseEndpoint,
		Bucket:       app.config.S3Bucket,
		Expiry:       storage.DefaultExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	return p, nil
}

// Handler exposes the HTTP router.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Run serves until ctx is cancelled or a server fails, then shuts down HTTP,
// stops gRPC, drains pending mail and releases the cache and database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(gctx, "Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := app.health.Run(gctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(gctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	err := g.Wait()
	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) close(ctx context.Context) {
	if app.notifier != nil {
		app.notifier.Wait()
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Warn(ctx, "cache close", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "database close", "error", err)
		}
	}
}
