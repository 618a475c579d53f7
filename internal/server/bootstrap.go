package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alliedparts/internal/cache"
	"alliedparts/internal/config"
	"alliedparts/internal/logger"
	"alliedparts/internal/payment"
	"alliedparts/internal/repositories"
	"alliedparts/internal/services"
	"alliedparts/pkg/rabbitmq"
)

// OpenStore connects to the store selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		return repositories.NewMongoStore(ctx, cfg.MongoURI, cfg.DBName, cfg.StoreTimeout)
	case "postgres", "sqlite":
		db, err := repositories.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repositories.NewGORMStore(db, cfg.StoreTimeout)
	case "memory":
		logger.Warning("Using the in-memory store; data is lost on restart")
		return repositories.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warningf("Error closing store: %v", err)
		}
	}()

	deps := Dependencies{
		Store:                     store,
		Auth:                      services.NewAuthService(cfg.TokenSecret, cfg.TokenTTL),
		Gateway:                   payment.NewStripeGateway(cfg.StripeSecretKey, cfg.PaymentCurrency),
		ProfileUpdateRequiresAuth: cfg.ProfileUpdateRequiresAuth,
	}
	if cfg.StripeSecretKey == "" {
		logger.Warning("STRIPE_SECRET_KEY is not set; payment intents will fail")
	}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		deps.Publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
			logger.Warningf("Failed to start order event consumer: %v", err)
		}
	} else {
		logger.Info("RABBITMQ_URL is not set; order events are disabled")
	}

	if cfg.RedisAddr != "" {
		listingCache, err := cache.New(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer listingCache.Close()
		deps.Cache = listingCache
	}

	app := NewApp(deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Allied Parts server is running on %s", cfg.AppPort)
		errCh <- app.Listen(cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	logger.Info("Server gracefully stopped")
	return nil
}

// PromoteToAdmin sets the admin role on uid directly in the store.
func PromoteToAdmin(ctx context.Context, cfg *config.Config, uid string) (*repositories.UpdateResult, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close(context.Background())

	users := services.NewUserService(store.Users, services.NewAuthService(cfg.TokenSecret, cfg.TokenTTL))
	return users.MakeAdmin(ctx, uid)
}
