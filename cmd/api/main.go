package main

import (
	"fmt"
	"log"

	"github.com/bryanherdianto/penyelamat-pangan/config"
	"github.com/bryanherdianto/penyelamat-pangan/handlers"
	"github.com/bryanherdianto/penyelamat-pangan/middleware"
	"github.com/bryanherdianto/penyelamat-pangan/models"
	"github.com/bryanherdianto/penyelamat-pangan/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Users are owned by the API; readings, predictions and alerts are
	// created by their writer services.
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}

	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, caching and live feed disabled: %v", err)
	}
	defer cache.Close()

	authService := services.NewAuthService(cfg.JWT)

	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.SetupCORS(cfg.CORS))

	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(db, authService)
	readingsHandler := handlers.NewReadingsHandler(db, cache)
	predictionsHandler := handlers.NewPredictionsHandler(db, cache)
	alertsHandler := handlers.NewAlertsHandler(db)
	modelHandler := handlers.NewModelHandler(cfg.Model)

	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth(authService))
		{
			protected.GET("/readings", readingsHandler.GetReadings)
			protected.GET("/readings/latest", readingsHandler.GetLatest)
			protected.GET("/readings/stats", readingsHandler.GetStats)
			protected.GET("/predictions", predictionsHandler.GetPredictions)
			protected.GET("/alerts", alertsHandler.GetAlerts)
			protected.POST("/predict", modelHandler.Predict)
			protected.GET("/model/info", modelHandler.Info)
		}
	}

	router.GET("/ws/live", handlers.LiveWebSocket(cache, authService))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
