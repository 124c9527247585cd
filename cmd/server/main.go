package main

import (
	"time"

	"syndicate_armory/internal/config"
	"syndicate_armory/internal/database"
	"syndicate_armory/internal/handlers"
	"syndicate_armory/internal/redis"
	"syndicate_armory/internal/repository"
	"syndicate_armory/internal/seed"
	"syndicate_armory/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Pick the order store: in-memory by default, Postgres when configured
	var orderRepo repository.OrderRepository
	if cfg.DatabaseURL != "" {
		db, err := database.Initialize(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		orderRepo = repository.NewGormOrderRepository(db)
		logger.Info("using postgres order store")
	} else {
		orderRepo = repository.NewMemoryOrderRepository()
		logger.Info("using in-memory order store")
	}

	// Optional tracking-lookup cache
	var orderCache services.OrderCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		orderCache = redisClient
		logger.Info("tracking lookup cache enabled")
	}

	// Demo data for the mock storefront
	if cfg.SeedDemoOrders {
		if err := seed.Load(orderRepo); err != nil {
			logger.Fatal("failed to seed demo orders", zap.Error(err))
		}
		logger.Info("demo orders seeded")
	}

	// Initialize services
	orderService := services.NewOrderService(orderRepo, orderCache, logger)
	queryService := services.NewQueryService(orderRepo)
	trackingService := services.NewTrackingService(orderRepo, queryService, orderCache, time.Duration(cfg.CacheTTL)*time.Second, logger)
	staffService, err := services.NewStaffService(cfg.AdminAccessCode)
	if err != nil {
		logger.Fatal("failed to initialize staff service", zap.Error(err))
	}

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(orderService, queryService, trackingService, staffService)

	// Setup routes
	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", apiHandler.HealthCheck)
		api.GET("/orders/:trackingId", apiHandler.TrackOrder)
		api.GET("/orders/:trackingId/queue", apiHandler.QueuePosition)
		api.POST("/orders", apiHandler.CreateOrder)
		api.POST("/auth/login", apiHandler.Login)

		admin := api.Group("/admin")
		{
			admin.GET("/orders", apiHandler.ListOrders)
			admin.GET("/orders/export", apiHandler.ExportOrders)
			admin.GET("/orders/:id", apiHandler.GetOrder)
			admin.GET("/stats", apiHandler.Stats)
			admin.PATCH("/orders/:id/status", apiHandler.UpdateStatus)
			admin.PATCH("/orders/:id/payment", apiHandler.TogglePayment)
			admin.PATCH("/orders/:id/treasury", apiHandler.ToggleTreasury)
		}
	}

	// Start server
	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cors.New(corsConfig)
}
