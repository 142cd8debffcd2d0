// Package handlers implements the HTTP endpoint handlers for the batch
// gateway: the batch destinations themselves plus the management surface
// (health, destination listing, gateway statistics).
//
// Handlers are constructed by factory functions that capture their
// collaborators, keeping the server wiring explicit and the handlers
// testable with plain gin test contexts.
package handlers

import (
	"net/http"
	"time"

	"github.com/concave-dev/batchq/internal/api/dispatch"
	"github.com/gin-gonic/gin"
)

// StatsResponse aggregates gateway-wide counters for the stats endpoint.
type StatsResponse struct {
	Instance     string    `json:"instance"`
	Version      string    `json:"version"`
	StartTime    time.Time `json:"start_time"`
	Uptime       string    `json:"uptime"`
	Destinations int       `json:"destinations"`
	Batches      uint64    `json:"batches"`
	Items        uint64    `json:"items"`
	ItemErrors   uint64    `json:"item_errors"`
}

// HandleDestinations returns the registered destinations with their
// per-destination counters.
func HandleDestinations(dispatcher *dispatch.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := dispatcher.Destinations()

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   infos,
			"count":  len(infos),
		})
	}
}

// HandleStats returns gateway-wide batch processing totals.
func HandleStats(dispatcher *dispatch.Dispatcher, version string, startTime time.Time, instanceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		batches, items, itemErrors := dispatcher.Totals()

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data": StatsResponse{
				Instance:     instanceName,
				Version:      version,
				StartTime:    startTime,
				Uptime:       time.Since(startTime).String(),
				Destinations: len(dispatcher.Destinations()),
				Batches:      batches,
				Items:        items,
				ItemErrors:   itemErrors,
			},
		})
	}
}
