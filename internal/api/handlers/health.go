package handlers

import (
	"net/http"
	"time"

	"github.com/concave-dev/batchq/internal/api/dispatch"
	"github.com/gin-gonic/gin"
)

// HealthResponse reports gateway liveness plus enough identity to tell
// instances apart when several run on one host.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	Instance     string    `json:"instance"`
	Destinations int       `json:"destinations"`
}

// HandleHealth reports the gateway as healthy along with its identity and
// the number of batch destinations it is serving. A gateway with zero
// destinations is still healthy; it just cannot accept batches yet.
func HandleHealth(dispatcher *dispatch.Dispatcher, version string, startTime time.Time, instanceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:       "healthy",
			Timestamp:    time.Now(),
			Version:      version,
			Uptime:       time.Since(startTime).String(),
			Instance:     instanceName,
			Destinations: len(dispatcher.Destinations()),
		})
	}
}
