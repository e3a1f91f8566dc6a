package techfix

import (
	"context"
	"errors"
	"log/slog"

	"github.com/techfixpro/appkit/core/apiclient"
	"github.com/techfixpro/appkit/core/auth"
	"github.com/techfixpro/appkit/core/config"
	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/core/router"
	"github.com/techfixpro/appkit/core/storage"
	redisint "github.com/techfixpro/appkit/integration/database/redis"
	"github.com/techfixpro/appkit/pkg/async"
)

// App wires the service management client together: persistent storage,
// the backend API client, the session manager and the navigation router.
type App struct {
	cfg    Config
	log    *slog.Logger
	sink   router.Sink
	cache  storage.ResponseCache
	store  *storage.Gateway
	api    *apiclient.Client
	auth   *auth.Manager
	router *router.Router
}

type AppOption func(*App) error

// WithLogger replaces the configured logger.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		app.log = log
		return nil
	}
}

// WithSink replaces the rendering surface the router drives.
func WithSink(sink router.Sink) AppOption {
	return func(app *App) error {
		app.sink = sink
		return nil
	}
}

// WithResponseCache replaces the storage gateway's cache engine.
func WithResponseCache(cache storage.ResponseCache) AppOption {
	return func(app *App) error {
		app.cache = cache
		return nil
	}
}

// NewApp loads configuration from the environment and assembles the
// application. With CACHE_REDIS_ENABLED set, API responses cache in Redis
// with native expiry instead of the local database.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	cfg, err := config.Load[Config]()
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.log == nil {
		app.log = logger.New(cfg.Logger).With(logger.Component(cfg.AppName))
	}
	if app.sink == nil {
		app.sink = &logSink{log: app.log}
	}

	if app.cache == nil && cfg.RedisCache {
		client, err := redisint.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.cache = redisint.NewResponseCache(client, cfg.Storage.Namespace)
	}

	storageOpts := []storage.Option{storage.WithLogger(app.log)}
	if app.cache != nil {
		storageOpts = append(storageOpts, storage.WithResponseCache(app.cache))
	}
	app.store, err = storage.Open(cfg.Storage, storageOpts...)
	if err != nil {
		return nil, err
	}

	app.api = apiclient.New(cfg.API, apiclient.WithLogger(app.log))
	app.auth = auth.New(cfg.Auth, app.api, app.store, auth.WithLogger(app.log))

	app.router, err = router.New(cfg.Router, app.routes(), app.auth, app.sink,
		router.WithLogger(app.log))
	if err != nil {
		_ = app.store.Close()
		return nil, err
	}

	return app, nil
}

// Run restores the persisted session, navigates to the entry route and
// drives the background loops until the context is cancelled. A loop failing
// for any reason other than cancellation surfaces as Run's error.
func (app *App) Run(ctx context.Context) error {
	if err := app.auth.Restore(ctx); err != nil {
		return err
	}

	entry := app.cfg.Router.LoginRoute
	if app.auth.IsAuthenticated(ctx) {
		entry = app.cfg.Router.HomeRoute
	}
	if err := app.router.Navigate(ctx, entry); err != nil {
		return err
	}

	sweeper := async.Exec(ctx, app.store, func(ctx context.Context, store *storage.Gateway) error {
		return store.Run(ctx)()
	})
	refresher := async.Exec(ctx, app.auth, func(ctx context.Context, mgr *auth.Manager) error {
		return mgr.Run(ctx)()
	})

	<-ctx.Done()

	_ = app.auth.Stop()
	_ = app.store.Stop()

	// Cancellation before a loop's goroutine starts surfaces as the
	// context's error; that is still a clean shutdown.
	loopErr := async.ExecAll(sweeper, refresher)
	if errors.Is(loopErr, context.Canceled) {
		loopErr = nil
	}
	if err := app.store.Close(); err != nil {
		return err
	}
	return loopErr
}

// Router exposes navigation to the embedding UI.
func (app *App) Router() *router.Router { return app.router }

// Auth exposes the session manager to the embedding UI.
func (app *App) Auth() *auth.Manager { return app.auth }

// Storage exposes the persistence gateway to the embedding UI.
func (app *App) Storage() *storage.Gateway { return app.store }

// logSink renders through the structured log. Real frontends replace it via
// WithSink.
type logSink struct {
	log *slog.Logger
}

func (s *logSink) SetTitle(title string) {
	s.log.Info("title changed", logger.Key("title", title))
}

func (s *logSink) NotFound(path string) {
	s.log.Warn("view not found", logger.RoutePath(path))
}
