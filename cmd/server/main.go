package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/config"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/auth"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/cache"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/delivery"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/events"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/middleware"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/repository"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/usecase"
	"github.com/leanNunez/Ecommerce-Tucuman/pkg/db"
	"github.com/leanNunez/Ecommerce-Tucuman/pkg/metrics"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.Info("Starting Ecommerce Tucumán API...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	readCache := cache.NewNopCache()
	if cfg.RedisAddr != "" {
		readCache = cache.NewRedisCache(cfg.RedisAddr, "tienda")
		logger.Infof("Redis cache enabled at %s", cfg.RedisAddr)
	}

	publisher := events.NewNopPublisher()
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, logger)
		if err != nil {
			logger.Fatalf("FATAL: Failed to connect to AMQP broker: %v", err)
		}
		publisher = amqpPublisher
		defer publisher.Close()
	}

	tokens := auth.NewManager(cfg.JWTSecret)

	productRepo := repository.NewPostgresProductRepository(database, logger)
	categoryRepo := repository.NewPostgresCategoryRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	userRepo := repository.NewPostgresUserRepository(database, logger)
	logger.Info("Repositories initialized.")

	productUseCase := usecase.NewProductUseCase(productRepo, readCache, logger)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, readCache, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, publisher, logger)
	userUseCase := usecase.NewUserUseCase(userRepo, tokens, logger)
	logger.Info("Use cases initialized.")

	productHandler := delivery.NewProductHandler(productUseCase, logger)
	categoryHandler := delivery.NewCategoryHandler(categoryUseCase, logger)
	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	authHandler := delivery.NewAuthHandler(userUseCase, logger)
	logger.Info("Handlers initialized.")

	serverMetrics := metrics.NewServerMetrics("api")

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics(serverMetrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: cfg.CORSOrigin != "*",
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.RequireAuth(tokens, logger)
	requireAdmin := middleware.RequireAdmin(logger)
	optionalAuth := middleware.OptionalAuth(tokens)

	api := router.Group("/api")
	productHandler.RegisterRoutes(api, requireAuth, requireAdmin)
	categoryHandler.RegisterRoutes(api, requireAuth, requireAdmin)
	orderHandler.RegisterRoutes(api, optionalAuth, requireAuth, requireAdmin)
	authHandler.RegisterRoutes(api, requireAuth)
	logger.Info("Routes registered.")

	startedAt := time.Now()
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).Seconds(),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// The vanilla frontend is plain static files consuming this API.
	if cfg.StaticDir != "" {
		router.Static("/tienda", cfg.StaticDir)
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/tienda/")
		})
	}

	logger.Infof("Listening on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
