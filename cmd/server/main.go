package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fruitfulhq/storefront-backend/config"
	"github.com/fruitfulhq/storefront-backend/internal/app/controller"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	"github.com/fruitfulhq/storefront-backend/internal/db"
	"github.com/fruitfulhq/storefront-backend/internal/mailer"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/fruitfulhq/storefront-backend/internal/router"
	"github.com/fruitfulhq/storefront-backend/internal/scheduler"
	"github.com/fruitfulhq/storefront-backend/internal/storage"
	"github.com/fruitfulhq/storefront-backend/internal/websocket"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Fruitful Storefront Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
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

	// Connect to Redis (guest carts, OTP codes, product snapshot cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Commerce backend client (catalog, authenticated carts, orders, tokens)
	commerceClient, err := commerce.NewClient(commerce.Config{
		BaseURL:    cfg.Commerce.BaseURL,
		ServiceKey: cfg.Commerce.ServiceKey,
		Timeout:    cfg.Commerce.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create commerce backend client", err)
	}

	// Initialize repositories
	guestCartRepo := repository.NewGuestCartRepository(redisClient)
	couponRepo := repository.NewCouponRepository(db.GetDB())
	deliveryChargeRepo := repository.NewDeliveryChargeRepository(db.GetDB())
	announcementRepo := repository.NewAnnouncementRepository(db.GetDB())

	// Cart sync hub fans mutations out to every open tab
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(commerceClient)
	otpService := service.NewOTPService(
		redisClient,
		mailer.NewSMTPMailer(cfg.OTP),
		cfg.OTP.CodeTTL,
		cfg.OTP.MaxAttempts,
	)
	productService := service.NewProductService(commerceClient, redisClient)
	cartService := service.NewCartService(guestCartRepo, productService, commerceClient, hub)
	couponService := service.NewCouponService(couponRepo)
	deliveryService := service.NewDeliveryService(deliveryChargeRepo, cfg.Delivery.DefaultCharge)
	announcementService := service.NewAnnouncementService(announcementRepo)
	checkoutService := service.NewCheckoutService(couponService, deliveryService)
	orderService := service.NewOrderService(commerceClient)

	// Start promotion housekeeping
	housekeeping := scheduler.NewHousekeepingScheduler(couponService, announcementService)
	if err := housekeeping.Start(); err != nil {
		logger.Fatal("Failed to start housekeeping scheduler", err)
	}
	defer housekeeping.Stop()

	// S3 storage for admin image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, otpService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, checkoutService)
	cartSyncController := controller.NewCartSyncController(hub, cfg.CORS.AllowedOrigins)
	couponController := controller.NewCouponController(couponService)
	deliveryController := controller.NewDeliveryChargeController(deliveryService)
	announcementController := controller.NewAnnouncementController(announcementService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		cartSyncController,
		couponController,
		deliveryController,
		announcementController,
		orderController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
