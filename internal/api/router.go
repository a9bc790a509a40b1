package api

import (
	"github.com/Conceptual-Machines/magda-melody/internal/api/handlers"
	"github.com/Conceptual-Machines/magda-melody/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-melody/internal/config"
	"github.com/Conceptual-Machines/magda-melody/internal/metrics"
	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/Conceptual-Machines/magda-melody/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter builds the HTTP API. db and cloudwatch may be nil; generation
// logging and CloudWatch metrics are then disabled.
func SetupRouter(
	db *gorm.DB,
	cfg *config.Config,
	version string,
	learned library.LearnedPatterns,
	cloudwatch *metrics.Client,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(middleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(middleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(middleware.RequestTracking(cloudwatch))

	// CORS middleware
	router.Use(middleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(db, learned)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg, cloudwatch)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// API routes v1
	v1 := router.Group("/api/v1")
	if cfg.IsGatewayMode() {
		v1.Use(middleware.GatewayAuth())
	} else {
		v1.Use(middleware.NoAuth())
	}
	{
		v1.GET("/catalog", handlers.Catalog)

		logs := services.NewGenerationLogService(db)

		melodyHandler := handlers.NewMelodyHandler(cfg, learned, logs, cloudwatch)
		melodies := v1.Group("/melodies")
		melodies.POST("/generate", melodyHandler.Generate)
		melodies.POST("/evaluate", melodyHandler.Evaluate)
		melodies.POST("/refine", melodyHandler.Refine)
		melodies.POST("/counterpoint", melodyHandler.Counterpoint)
		melodies.POST("/ornament", melodyHandler.Ornament)
		melodies.POST("/transform", melodyHandler.Transform)

		historyHandler := handlers.NewHistoryHandler(logs)
		melodies.GET("/history", historyHandler.List)
		melodies.GET("/history/:id", historyHandler.Get)
		melodies.POST("/history/:id/replay", melodyHandler.Replay)
	}

	return router
}
