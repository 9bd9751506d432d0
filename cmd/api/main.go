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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/avelinelabs/giftnest-backend/api/routes"
	"github.com/avelinelabs/giftnest-backend/internal/cart"
	"github.com/avelinelabs/giftnest-backend/internal/checkout"
	"github.com/avelinelabs/giftnest-backend/internal/orders"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	"github.com/avelinelabs/giftnest-backend/pkg/config"
	"github.com/avelinelabs/giftnest-backend/pkg/enums"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/metrics"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
)

const shutdownGrace = 15 * time.Second

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

	snapshots, err := newSnapshotStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap snapshot store", err)
		os.Exit(1)
	}

	ordersClient, err := orders.NewClient(orders.ClientParams{
		BaseURL: cfg.Orders.BaseURL,
		Timeout: cfg.Orders.Timeout,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	deliveryPriority, err := enums.ParseDeliveryPriority(cfg.Checkout.DefaultDeliveryPriority)
	if err != nil {
		logg.Error(context.Background(), "invalid default delivery priority", err)
		os.Exit(1)
	}

	shoppers, err := shopper.NewManager(shopper.ManagerParams{
		Snapshots: snapshots,
		Orders:    ordersClient,
		Pricing: cart.Pricing{
			TaxRate:         cfg.Pricing.TaxRate,
			ShippingFlatFee: cfg.Pricing.ShippingFlatFee,
		},
		Checkout: checkout.Config{
			EstimatedDeliveryDays:   cfg.Checkout.EstimatedDeliveryDays,
			DefaultDeliveryPriority: deliveryPriority,
		},
		KeyNamespace: cfg.Storage.KeyNamespace,
		Logger:       logg,
		Metrics:      storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, snapshots, shoppers, registry),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, snapshots.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}

func newSnapshotStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (snapshot.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		return snapshot.NewRedis(ctx, cfg.Redis, logg)
	case config.StorageBackendMemory:
		return snapshot.NewMemory(), nil
	default:
		return snapshot.NewSQLite(ctx, cfg.Storage.SQLitePath, logg)
	}
}
