// Package app provides the main application setup and dependency injection.
package app

import (
	"context"

	"github.com/google/uuid"

	"movie-sync-go/pkg/catalog"
	"movie-sync-go/pkg/config"
	"movie-sync-go/pkg/httpclient"
	"movie-sync-go/pkg/interfaces"
	"movie-sync-go/pkg/logging"
	"movie-sync-go/pkg/store"
	"movie-sync-go/pkg/syncer"
)

// App is the main application container.
type App struct {
	Config *config.Config
	Log    *logging.Logger
	Store  interfaces.KeyValueStore
	Syncer *syncer.Syncer

	cache *store.Cache
}

// New creates and initializes the application. The store connection is
// established here so a misconfigured run fails before any upstream traffic.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	log := logging.New(cfg.LogLevel, cfg.LogJSON, nil).With("run_id", uuid.NewString())
	log.Info("initializing movie sync",
		"api", cfg.APIBaseURL,
		"page_size", cfg.PageSize,
		"cache_preload", cfg.CachePreload,
	)

	httpClient := httpclient.New(cfg, log)
	catalogClient := catalog.New(cfg, httpClient, log)

	redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}

	var kv interfaces.KeyValueStore = redisStore
	var cache *store.Cache
	if cfg.CachePreload {
		cache = store.NewCache(redisStore, log)
		kv = cache
	}

	return &App{
		Config: cfg,
		Log:    log,
		Store:  kv,
		Syncer: syncer.New(catalogClient, kv, cfg, log),
		cache:  cache,
	}, nil
}

// Run executes one synchronization run and logs its summary. The returned
// error is non-nil only when the run aborted; individual item failures do
// not fail the run.
func (a *App) Run(ctx context.Context) error {
	if a.cache != nil {
		if err := a.cache.Preload(ctx); err != nil {
			a.Log.Warn("cache preload failed, reads go to the store", "error", err)
		}
	}

	result, err := a.Syncer.Run(ctx)
	a.Log.Info("run finished",
		"pages", result.Pages,
		"cached", result.Cached,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"aborted", result.Aborted,
	)
	return err
}

// Shutdown releases network resources.
func (a *App) Shutdown() {
	if err := a.Store.Close(); err != nil {
		a.Log.Warn("failed to close store", "error", err)
	}
}
