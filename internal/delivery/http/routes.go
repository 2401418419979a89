package http

import (
	"github.com/gin-gonic/gin"
	"github.com/labelpadhega/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.GET("/:code", handler.GetProduct)
		}

		v1.POST("/analyze", handler.AnalyzeIngredients)
		v1.POST("/analyze/product/:code", handler.AnalyzeProduct)
		v1.POST("/analyze/image", handler.AnalyzeImage)
	}

	return router
}
