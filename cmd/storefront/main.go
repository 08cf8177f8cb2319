package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
	"github.com/co-developer342/fyp-wednesday/internal/catalog"
	"github.com/co-developer342/fyp-wednesday/internal/checkout"
	"github.com/co-developer342/fyp-wednesday/internal/config"
	"github.com/co-developer342/fyp-wednesday/internal/db"
	"github.com/co-developer342/fyp-wednesday/internal/events"
	httpserver "github.com/co-developer342/fyp-wednesday/internal/http"
	"github.com/co-developer342/fyp-wednesday/internal/orders"
	"github.com/co-developer342/fyp-wednesday/internal/payment"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	if cfg.LogFormat == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cart storage: sqlite when a path is configured, memory otherwise.
	var storage cart.Storage = cart.NewMemoryStorage()
	var sequences events.SequenceRepository
	if cfg.DBPath != "" {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		defer database.Close()

		if err := db.RunMigrations(database, logger); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}

		storage = cart.NewSQLiteStorage(database)
		sequences = events.NewSequenceRepository(database)
	}

	store := cart.NewStore(ctx, storage, logger)

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	catalogClient, err := catalog.NewHTTPClient(cfg.CatalogURL, httpClient)
	if err != nil {
		logger.Fatal("catalog client", zap.Error(err))
	}
	gateway, err := payment.NewGateway(cfg.PaymentURL, httpClient)
	if err != nil {
		logger.Fatal("payment gateway", zap.Error(err))
	}
	ordersClient, err := orders.NewHTTPClient(cfg.OrderURL, httpClient)
	if err != nil {
		logger.Fatal("orders client", zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" && sequences != nil {
		conn, err := events.DialRabbit(cfg.RabbitURL)
		if err != nil {
			logger.Fatal("rabbitmq dial", zap.Error(err))
		}
		defer conn.Close()

		publisher, err = events.NewRabbitPublisher(conn, sequences)
		if err != nil {
			logger.Fatal("rabbitmq publisher", zap.Error(err))
		}
	}

	coordinator := checkout.NewCoordinator(checkout.Config{
		Cart:      store,
		Provider:  gateway,
		Orders:    ordersClient,
		Publisher: publisher,
		Notifier:  checkout.NewZapNotifier(logger),
		Logger:    logger,
		Timeout:   cfg.UpstreamTimeout,
	})

	router := httpserver.NewRouter(
		httpserver.NewCartHandler(store, catalogClient, logger),
		httpserver.NewCatalogHandler(catalogClient, logger),
		httpserver.NewCheckoutHandler(coordinator, gateway, ordersClient),
		cfg.CORSAllowOrigins,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("publisher close error", zap.Error(err))
	}
}
