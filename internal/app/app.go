package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helakart/storefront/pkg/health"
	"github.com/helakart/storefront/pkg/httpclient"

	"github.com/helakart/storefront/internal/backend"
	"github.com/helakart/storefront/internal/catalog"
	"github.com/helakart/storefront/internal/config"
	handler "github.com/helakart/storefront/internal/handler/http"
	redisrepo "github.com/helakart/storefront/internal/repository/redis"
	"github.com/helakart/storefront/internal/service"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	catalog    *catalog.Catalog
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Backend client with retries and a circuit breaker.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("backend"),
		logger,
	)
	backendClient := backend.New(breaker, cfg.BackendBaseURL, cfg.BackendAPIKey, logger)

	// Build the dependency graph.
	cat := catalog.New(backendClient, cfg.DeliveryCharge(), logger)
	cat.Load(ctx)

	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	store := redisrepo.NewCartStore(rdb, cartTTL, logger)
	cartService := service.NewCartService(store, cat, cfg.CurrencyLabel, logger)
	checkoutService := service.NewCheckoutService(cartService, cat, backendClient, cfg.DefaultLanguage, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("backend", backendClient.Ping)

	// HTTP router.
	router := handler.NewRouter(cartService, checkoutService, cat, healthHandler, logger, handler.RouterConfig{
		CheckoutRPS:   cfg.CheckoutRPS,
		CheckoutBurst: cfg.CheckoutBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		catalog:    cat,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if a.cfg.CatalogRefreshMinutes > 0 {
		go a.refreshCatalog(ctx, time.Duration(a.cfg.CatalogRefreshMinutes)*time.Minute)
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// refreshCatalog re-pulls all catalog datasets on an interval until the
// context is canceled. Load degrades per dataset on failure, so a broken
// backend never disturbs the data already serving.
func (a *App) refreshCatalog(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.catalog.Load(ctx)
		}
	}
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
