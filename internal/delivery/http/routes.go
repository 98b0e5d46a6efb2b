package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartsave/freshness/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(BodyLimitMiddleware(maxBodyBytes))

	router.GET("/health", handler.HealthCheck)

	// Scoring backend, same contract the store UI has always called
	router.POST("/api/analyze", handler.ScoreImage)

	v1 := router.Group("/api/v1")
	{
		freshness := v1.Group("/freshness")
		{
			freshness.POST("/detect", handler.Detect)
			freshness.POST("/analyze", handler.Analyze)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.GET("", handler.ListInventory)
			inventory.GET("/:sku", handler.GetInventoryItem)
		}

		v1.POST("/esl/updates", handler.ApplyESLUpdate)

		rules := v1.Group("/pricing/rules")
		{
			rules.GET("", handler.ListPricingRules)
			rules.POST("", handler.CreatePricingRule)
		}
	}

	return router
}
