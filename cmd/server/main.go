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

	"github.com/kreslo/kreslo-backend/config"
	"github.com/kreslo/kreslo-backend/internal/app/controller"
	"github.com/kreslo/kreslo-backend/internal/app/repository"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	"github.com/kreslo/kreslo-backend/internal/cart"
	"github.com/kreslo/kreslo-backend/internal/db"
	"github.com/kreslo/kreslo-backend/internal/middleware"
	"github.com/kreslo/kreslo-backend/internal/router"
	"github.com/kreslo/kreslo-backend/internal/scheduler"
	"github.com/kreslo/kreslo-backend/internal/storage"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/kreslo/kreslo-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: true,
	})

	logger.Info("Starting Kreslo Backend Server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"cart_backend": cfg.Cart.Backend,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	cartStorage := newCartStorage(cfg.Cart, &cfg.Redis)
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	bundleRepo := repository.NewBundleRepository(db.GetDB())
	settingRepo := repository.NewSettingRepository(db.GetDB())

	// Initialize services
	settingsService := service.NewSettingsService(settingRepo, cfg.Store.WhatsAppNumber)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, settingsService)
	bundleService := service.NewBundleService(bundleRepo)
	cartService := service.NewCartService(
		service.CartConfig{Storage: cartStorage, Namespace: cfg.Cart.StorageKey},
		productRepo,
		bundleService,
		settingsService,
	)

	// Initialize controllers
	locale := cfg.Store.DefaultLocale
	catalogController := controller.NewCatalogController(catalogService, locale)
	bundleController := controller.NewBundleController(bundleService, locale)
	cartController := controller.NewCartController(cartService, locale)
	colorController := controller.NewColorController()
	exportController := controller.NewExportController(bundleService, locale)
	settingsController := controller.NewSettingsController(settingsService)

	var uploadController *controller.UploadController
	s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		logger.Warn("S3 storage unavailable, image uploads disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		uploadController = controller.NewUploadController(s3Storage)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.AdminRole)

	// Setup router
	r := router.NewRouter(
		catalogController,
		bundleController,
		cartController,
		colorController,
		uploadController,
		exportController,
		settingsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Background jobs
	jobs := scheduler.NewScheduler(catalogService, cartService, cfg.Scheduler, cfg.Cart.IdleTTL)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	jobs.Stop(ctx)

	logger.Info("Server stopped successfully")
}

// newCartStorage picks the snapshot backend. Redis falls back to memory when
// it cannot be reached so the storefront keeps taking orders.
func newCartStorage(cfg config.CartConfig, redisCfg *config.RedisConfig) cart.Storage {
	switch cfg.Backend {
	case "redis":
		if err := redis.Init(redisCfg); err != nil {
			logger.Warn("Redis unavailable, carts will not survive a restart", map[string]interface{}{
				"error": err.Error(),
			})
			return cart.NewMemoryStorage()
		}
		return cart.NewRedisStorage(redis.GetClient(), cfg.SnapshotTTL)
	case "file":
		fs, err := cart.NewFileStorage(cfg.FileDir)
		if err != nil {
			logger.Fatal("Failed to prepare cart directory", err, map[string]interface{}{
				"dir": cfg.FileDir,
			})
		}
		return fs
	default:
		return cart.NewMemoryStorage()
	}
}
