package router

import (
	"github.com/gin-gonic/gin"

	"aforo/internal/handler"
	"aforo/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	apiKey string,
	shipmentH *handler.ShipmentHandler,
	batchH *handler.BatchHandler,
	sessionH *handler.SessionHandler,
	fileH *handler.FileHandler,
	catalogH *handler.CatalogHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKey(apiKey))

	// Shipment processing
	shipments := v1.Group("/shipments")
	shipments.POST("/process", shipmentH.Process)
	shipments.POST("/recompute", shipmentH.Recompute)
	shipments.POST("/validate", shipmentH.Validate)
	shipments.POST("/validate-field", shipmentH.ValidateField)

	// Batch extraction
	batches := v1.Group("/batches")
	batches.POST("", batchH.Create)
	batches.GET("", batchH.List)
	batches.GET("/:id", batchH.Status)
	batches.POST("/:id/run", batchH.Run)
	batches.POST("/:id/cancel", batchH.Cancel)
	batches.DELETE("/:id", batchH.Delete)

	// Work sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("", sessionH.List)
	sessions.GET("/:id", sessionH.GetByID)
	sessions.PUT("/:id", sessionH.Update)
	sessions.DELETE("/:id", sessionH.Delete)

	// Source documents
	files := v1.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.GET("/:id/download", fileH.Download)
	files.DELETE("/:id", fileH.Delete)

	// Tariff classification catalog
	catalogGroup := v1.Group("/catalog")
	catalogGroup.GET("", catalogH.Entries)
	catalogGroup.GET("/lookup", catalogH.Lookup)
	catalogGroup.POST("/import", catalogH.Import)

	return r
}
