package api

import (
	"github.com/celestial-audio/starsong-api/internal/api/handlers"
	"github.com/celestial-audio/starsong-api/internal/api/middleware"
	"github.com/celestial-audio/starsong-api/internal/config"
	"github.com/celestial-audio/starsong-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, cwMetrics *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(middleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(middleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(middleware.RequestTracking())

	// CORS middleware
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", handlers.HealthCheck(db))

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// API routes v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg))
	{
		starHandler := handlers.NewStarHandler(db)
		v1.GET("/stars", starHandler.ListStars)
		v1.GET("/stars/:id", starHandler.GetStar)

		scoreHandler := handlers.NewScoreHandler(db, cwMetrics)
		v1.POST("/scores", scoreHandler.Generate)
		v1.GET("/scores", scoreHandler.ListScores)
		v1.GET("/scores/:id", scoreHandler.GetScore)

		// Catalog mutations (admin only)
		v1.POST("/stars", middleware.AdminRequired(), starHandler.CreateStar)
		v1.PUT("/stars/:id", middleware.AdminRequired(), starHandler.UpdateStar)
		v1.DELETE("/stars/:id", middleware.AdminRequired(), starHandler.DeleteStar)
	}

	return router
}
