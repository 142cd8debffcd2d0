package api

import (
	"github.com/concave-dev/batchq/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// Configures all gateway routes. Batch destinations are mounted from the
// dispatcher's registrations, so every registered destination becomes a
// POST route; the management endpoints live under /api/v1.
func (s *Server) setupRoutes(router *gin.Engine) {
	// API version prefix
	v1 := router.Group("/api/v1")

	// Health check endpoint
	v1.GET("/health", handlers.HandleHealth(s.dispatcher, s.version, s.startTime, s.instanceName))

	// Management endpoints
	v1.GET("/destinations", handlers.HandleDestinations(s.dispatcher))
	v1.GET("/stats", handlers.HandleStats(s.dispatcher, s.version, s.startTime, s.instanceName))

	// One POST route per registered batch destination
	for _, info := range s.dispatcher.Destinations() {
		router.POST(info.Path, handlers.HandleBatch(s.dispatcher, info.Path, s.maxBatchItems))
	}
}
