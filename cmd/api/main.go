package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/micronstore/storefront/api/routes"
	"github.com/micronstore/storefront/internal/cart"
	"github.com/micronstore/storefront/internal/coupons"
	"github.com/micronstore/storefront/internal/currency"
	"github.com/micronstore/storefront/internal/favorites"
	product "github.com/micronstore/storefront/internal/products"
	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/db"
	"github.com/micronstore/storefront/pkg/instance"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/metrics"
	"github.com/micronstore/storefront/pkg/migrate"
	"github.com/micronstore/storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	products := product.NewRepository(dbClient.DB())

	couponSvc, err := coupons.NewService(coupons.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	carts, err := cart.NewStore(redisClient, cfg.Session.CartTTL)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{
		Store:    carts,
		Products: products,
		Coupons:  couponSvc,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	favoriteSvc, err := favorites.NewService(favorites.ServiceParams{
		Repo:     favorites.NewRepository(dbClient.DB()),
		Products: products,
	})
	if err != nil {
		return err
	}

	renderer, err := product.NewRenderer()
	if err != nil {
		return err
	}

	rates, err := currency.NewProvider(cfg.Currency, redisClient,
		currency.WithMetrics(metrics.NewCurrencyMetrics(reg)),
		currency.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Limiter:   redisClient,
			Metrics:   httpMetrics,
			Gatherer:  reg,
			Cart:      cartSvc,
			Coupons:   couponSvc,
			Favorites: favoriteSvc,
			Catalog:   products,
			Renderer:  renderer,
			Rates:     rates,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logg.Info(logCtx, "api server shut down gracefully")
	return nil
}
