package router

import (
	"github.com/gin-gonic/gin"

	"intakedocs/internal/handler"
	"intakedocs/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	extractionH *handler.ExtractionHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Extraction triggers
	v1.POST("/documents/:id/extract", extractionH.ExtractDocument)
	v1.POST("/submissions/:id/extract", extractionH.ExtractSubmission)

	// Extraction config inspection
	v1.GET("/config", extractionH.GetConfig)

	return r
}
