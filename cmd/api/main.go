package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Saymandev/samucha-storefront/api/routes"
	"github.com/Saymandev/samucha-storefront/internal/cart"
	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/internal/variants"
	"github.com/Saymandev/samucha-storefront/pkg/config"
	"github.com/Saymandev/samucha-storefront/pkg/db"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
	"github.com/Saymandev/samucha-storefront/pkg/metrics"
	"github.com/Saymandev/samucha-storefront/pkg/migrate"
	"github.com/Saymandev/samucha-storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := bootstrapRedis(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	skus := variants.NewSKUGenerator(variants.NewCounterSequence(redisClient, "sku"), cfg.Variants.SKUMaxAttempts)
	productService, err := product.NewService(
		product.NewRepository(dbClient.DB()),
		dbClient,
		variants.NewExpander(skus),
		storefrontMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	snapshots, err := cart.NewRedisSnapshotRepository(redisClient, cfg.Cart.Namespace, cfg.Cart.SnapshotTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot repository", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(snapshots, productService, cfg.Cart.Policy(), storefrontMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"over_max_policy": cfg.Cart.OverMaxPolicy,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, cartService, productService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

// bootstrapRedis connects to the configured redis. Local sqlite runs without a
// redis address fall back to an in-process store so the API can start alone.
func bootstrapRedis(cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	if cfg.FeatureFlags.UseSQLite && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		logg.Warn(context.Background(), "no redis configured, using in-memory session store")
		return redis.NewWithCmdable(redis.NewMemoryCmdable()), nil
	}
	return redis.New(context.Background(), cfg.Redis, logg)
}
