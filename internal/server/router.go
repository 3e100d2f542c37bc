package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/lumen-backend/internal/handlers"
	"github.com/lumenlearn/lumen-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLogger    *middleware.RequestLogger
	KnowledgeHandler *handlers.KnowledgeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handler())
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/graphs/:subject/build", cfg.KnowledgeHandler.BuildGraph)
		api.GET("/graphs/:subject", cfg.KnowledgeHandler.GetGraph)
		api.POST("/graphs/:subject/paths", cfg.KnowledgeHandler.SynthesizePaths)
		api.GET("/concepts", cfg.KnowledgeHandler.SearchConcepts)
		api.GET("/concepts/:id/dependencies", cfg.KnowledgeHandler.GetConceptDependencies)
	}

	return router
}
