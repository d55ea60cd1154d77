package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/composite"
	"github.com/osse101/FlipResolver_Go/internal/config"
	"github.com/osse101/FlipResolver_Go/internal/database"
	"github.com/osse101/FlipResolver_Go/internal/database/postgres"
	"github.com/osse101/FlipResolver_Go/internal/event"
	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/internal/handler"
	"github.com/osse101/FlipResolver_Go/internal/ledger"
	"github.com/osse101/FlipResolver_Go/internal/metrics"
	"github.com/osse101/FlipResolver_Go/internal/repository"
	"github.com/osse101/FlipResolver_Go/internal/repository/memory"
	"github.com/osse101/FlipResolver_Go/internal/scheduler"
	"github.com/osse101/FlipResolver_Go/internal/server"
	"github.com/osse101/FlipResolver_Go/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// @title FlipResolver API
// @version 1.0
// @description Resolves partially filled GE offers into recipe and combination-set composite transactions.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	ctx := context.Background()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "error", err, "storage", cfg.Storage)
		os.Exit(1)
	}
	defer store.close()

	loader := catalog.NewLoader(catalog.LoaderConfig{
		RemoteURL:           cfg.RecipesURL,
		LocalRecipesPath:    cfg.LocalRecipesPath,
		CombinationSetsPath: cfg.CombinationSetsPath,
		FetchTimeout:        cfg.HTTPTimeout,
		CacheSize:           cfg.CatalogCacheSize,
	})
	initial := loader.Load(ctx)

	offerLedger := ledger.New(store.composites)
	if err := offerLedger.Replay(ctx); err != nil {
		slog.Error("Failed to replay offer ledger", "error", err)
		os.Exit(1)
	}

	bus := event.NewMemoryBus()
	metrics.NewEventMetricsCollector().Register(bus)

	builder := composite.NewBuilder(offerLedger)
	flipService := flip.NewService(
		store.offers,
		store.composites,
		offerLedger,
		builder,
		initial,
		loader,
		bus,
		flip.Options{IncludeMarginChecks: cfg.IncludeMarginChecks},
	)

	stopRefresh := startCatalogRefresh(cfg.CatalogRefreshInterval, flipService)
	defer stopRefresh()

	handler.InitValidator()

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,

		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		AuthFailureAlert:  cfg.AuthFailureAlert,
	}, store.readiness, flipService)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	slog.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}

// startCatalogRefresh schedules periodic catalog reloads and returns a stop func
func startCatalogRefresh(interval time.Duration, reloader worker.CatalogReloader) func() {
	if interval <= 0 {
		slog.Info("Periodic catalog refresh disabled")
		return func() {}
	}

	pool := worker.NewPool(1, 1)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(interval, worker.NewCatalogRefreshJob(reloader))
	slog.Info("Periodic catalog refresh enabled", "interval", interval.String())

	return func() {
		sched.Stop()
		pool.Stop()
	}
}

// storage bundles the repositories for the configured backend
type storage struct {
	offers     repository.Offer
	composites repository.Composite
	// readiness is nil for the memory backend so /readyz always succeeds
	readiness database.Pool
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.UsesMemoryStorage() {
		slog.Warn("Using in-memory storage; composites are lost on restart")
		store := memory.NewStore()
		return &storage{offers: store, composites: store, close: func() {}}, nil
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &storage{
		offers:     postgres.NewOfferRepository(pool),
		composites: postgres.NewCompositeRepository(pool),
		readiness:  pool,
		close:      pool.Close,
	}, nil
}
