// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"tileserv/internal/infrastructure/http/v1/handlers"
	"tileserv/internal/infrastructure/http/v1/middleware"
	"tileserv/internal/infrastructure/storage/postgres"
	"tileserv/internal/source"
	"tileserv/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Registry is the live source registry.
	Registry *source.Registry

	// Pool is the database connection pool (health checks, dynamic registration).
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Registry)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	catalogHandler := handlers.NewCatalogHandler(cfg.Registry)
	router.GET("/catalog", middleware.Gzip(), catalogHandler.Get)

	sourceHandler := handlers.NewSourceHandler(cfg.Pool, cfg.Registry)
	router.POST("/sources", sourceHandler.Register)

	// Tile payloads are served without the gzip middleware: the payload
	// encoding is dictated by the source's format fingerprint.
	tileHandler := handlers.NewTileHandler(cfg.Registry)
	tiles := router.Group("/tiles")
	{
		tiles.GET("/:source_ids", middleware.Gzip(), tileHandler.GetTileJSON)
		tiles.GET("/:source_ids/:z/:x/:y", tileHandler.GetTile)
	}

	return router
}
