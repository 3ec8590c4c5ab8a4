package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jewelcore/internal/config"
	"jewelcore/internal/database"
	"jewelcore/internal/handler"
	"jewelcore/internal/notify"
	"jewelcore/internal/pricing"
	"jewelcore/internal/repository"
	"jewelcore/internal/router"
	"jewelcore/internal/service"

	"github.com/shopspring/decimal"
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
	logger.Info().Msg("starting jewelcore API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	rateRepo := repository.NewRateRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	taxRepo := repository.NewTaxRepository(pool, logger)
	quotationRepo := repository.NewQuotationRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize the pricing core
	rates := pricing.NewRateLookup(rateRepo, logger)
	resolver := pricing.NewDiscountResolver(discountRepo, logger)
	engine := pricing.NewEngine(rates, productRepo, resolver, logger)

	var taxOverride *decimal.Decimal
	if cfg.Tax.OverrideRate >= 0 {
		override := decimal.NewFromFloat(cfg.Tax.OverrideRate)
		taxOverride = &override
	}
	taxCalc := pricing.NewTaxCalculator(taxRepo, taxOverride, logger)

	// Initialize the notification publisher
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Kafka.Enabled {
		notifier = notify.NewKafkaNotifier(cfg.Kafka, logger)
	} else {
		logger.Info().Msg("kafka disabled, customer notifications are discarded")
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close notifier")
		}
	}()

	// Initialize services
	quotationService := service.NewQuotationService(quotationRepo, orderRepo, productRepo, engine, taxCalc, notifier, logger)
	orderWorkflow := service.NewOrderWorkflow(orderRepo, logger)

	// Initialize HTTP handlers
	quotationHandler := handler.NewQuotationHandler(quotationService, logger)
	orderHandler := handler.NewOrderHandler(orderWorkflow, logger)
	pricingHandler := handler.NewPricingHandler(productRepo, engine, logger)

	// Initialize router
	mux := router.New(quotationHandler, orderHandler, pricingHandler, cfg.Auth.APIKey, logger)

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

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
