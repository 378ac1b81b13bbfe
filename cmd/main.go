package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homecook-backend/configs"
	"homecook-backend/internal/handlers"
	"homecook-backend/internal/models"
	"homecook-backend/internal/repositories"
	"homecook-backend/internal/services"
	"homecook-backend/pkg/auth"
	"homecook-backend/pkg/cache"
	"homecook-backend/pkg/database"
	"homecook-backend/pkg/logger"
	"homecook-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config := configs.LoadConfig()

	log, err := logger.New(config.Log.Mode, config.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(config, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(config *configs.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(config.Server.Mode)

	db, err := database.NewDatabase(ctx, config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.CartSnapshot{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis backs the product cache and, by default, the cart snapshots.
	redisCache, err := cache.NewRedisCache(ctx, config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if err != nil {
		if config.Storage.Driver == "redis" {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Warn("Redis unavailable, product cache disabled", zap.Error(err))
	} else {
		log.Info("connected to Redis", zap.String("addr", config.Redis.URL))
		defer redisCache.Close()
	}

	snapshots, err := newSnapshotRepository(config.Storage.Driver, db, redisCache)
	if err != nil {
		return err
	}
	log.Info("cart storage selected", zap.String("driver", config.Storage.Driver))

	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
	defer kafkaProducer.Close()

	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours)

	// Initialize repositories
	productRepo := repositories.NewProductRepository(db.MongoDB)
	orderRepo := repositories.NewOrderRepository(db.Postgres)

	// Initialize services
	var productCache services.ProductCache
	if redisCache != nil {
		productCache = redisCache
	}
	catalogService := services.NewCatalogService(productRepo, productCache, config.Cart.ProductCacheTTL, log)
	checkoutService := services.NewCheckoutService(orderRepo, kafkaProducer, config.Kafka.OrderTopic, log)
	carts := services.NewCartRegistry(snapshots, config.Cart.KeyPrefix, config.Cart.PersistTimeout, config.Cart.IdleTTL, log)
	go carts.RunSweeper(ctx, config.Cart.SweepInterval)

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:     log,
		JWTManager: jwtManager,
		Carts:      carts,
		Catalog:    catalogService,
		Checkout:   checkoutService,
	})

	server := &http.Server{
		Addr:              ":" + config.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", zap.Error(err))
	}
	if err := carts.Close(shutdownCtx); err != nil {
		log.Warn("some carts were not flushed", zap.Error(err))
	}
	return nil
}

func newSnapshotRepository(driver string, db *database.Database, redisCache *cache.RedisCache) (repositories.SnapshotRepository, error) {
	switch driver {
	case "redis":
		return repositories.NewRedisSnapshotRepository(redisCache), nil
	case "postgres":
		return repositories.NewPostgresSnapshotRepository(db.Postgres), nil
	case "mongo":
		return repositories.NewMongoSnapshotRepository(db.MongoDB), nil
	case "memory":
		return repositories.NewMemorySnapshotRepository(), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}
