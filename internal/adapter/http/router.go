package http

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter assembles the gin engine: structured request logging, panic
// recovery, a public health endpoint and the bearer-protected API.
func NewRouter(handler *CalculationHandler, logger *zap.Logger, apiToken string) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1", RequireBearer(apiToken))
	{
		api.POST("/calculations", handler.Create)
		api.GET("/calculations", handler.List)
		api.GET("/calculations/:id", handler.Get)
	}

	return router
}
