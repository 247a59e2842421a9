package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/idempotency"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/territory"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations before opening the pool
	if err := database.Migrate(cfg.Database, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)

	// Initialize territory checker with S3 and local fallback
	var checker territory.Checker = territory.AllowAll{}
	if cfg.Territory.Enabled {
		var loader territory.Loader = territory.NewFileLoader(logger)

		if cfg.Territory.S3Enabled {
			s3Loader, err := territory.NewS3Loader(ctx, cfg.Territory.S3Bucket, cfg.Territory.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 zone loader, falling back to local file system")
			} else {
				loader = s3Loader
			}
		}

		checker, err = territory.NewChecker(ctx, territory.CheckerConfig{
			ZoneFiles: cfg.Territory.ZoneFiles,
		}, loader, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize territory checker: %w", err)
		}
	} else {
		logger.Info().Msg("territory checking disabled, all destinations accepted")
	}

	// Initialize idempotency guard
	var guard idempotency.Guard = idempotency.Noop{}
	if cfg.Redis.Enabled {
		guard, err = idempotency.NewRedisGuard(ctx, cfg.Redis.Address, 24*time.Hour, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize idempotency guard: %w", err)
		}
	} else {
		logger.Info().Msg("redis disabled, idempotency keys are not enforced")
	}

	// Initialize pricing calculator
	calculator := pricing.NewCalculator(pricing.Config{
		TaxRate:               cfg.Pricing.TaxRate,
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
	})

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo, productRepo, inventoryRepo,
		calculator, checker, guard,
		cfg.Orders.NumberPrefix, logger,
	)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, inventoryHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
