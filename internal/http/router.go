package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mapharvest/internal/auth"
)

// NewRouter creates the control API router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	etls := NewETLsController(cfg.Registry, cfg.States, cfg.Tasks)
	documents := NewDocumentsController(cfg.Documents)
	taskStatus := NewTasksController(cfg.Tasks)

	api := router.Group("/api")
	{
		api.GET("/etls", etls.List)
		api.GET("/etls/:name", etls.Show)
		api.GET("/documents", documents.List)
		api.GET("/documents/:id", documents.Show)
		api.GET("/tasks/:id", taskStatus.Status)
	}

	admin := router.Group("/api", auth.AdminMiddleware(cfg.Auth, cfg.RateLimiter))
	{
		admin.POST("/etls/harvest", etls.HarvestAll)
		admin.POST("/etls/:name/harvest", etls.Harvest)
	}

	return router
}
