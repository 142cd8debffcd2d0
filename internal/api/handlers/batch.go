package handlers

import (
	"net/http"

	"github.com/concave-dev/batchq"
	"github.com/concave-dev/batchq/internal/api/dispatch"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/gin-gonic/gin"
)

// HandleBatch processes one batch envelope addressed at a destination:
// decode the ordered payload array, dispatch each item in order, reply with
// the bare ordered result array. The response array always matches the
// request array in length and order; per-item handler failures come back as
// error objects at their index, not as HTTP errors.
//
// maxItems caps the batch size; oversized batches are rejected with 413
// before any item is dispatched, so a rejected batch has no partial effects.
func HandleBatch(dispatcher *dispatch.Dispatcher, path string, maxItems int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var envelope batchq.Envelope
		if err := c.ShouldBindJSON(&envelope); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "invalid batch envelope: " + err.Error(),
			})
			return
		}

		payloads, err := decodeBatch(envelope.Data)
		if err != nil {
			logging.Warn("Gateway: Undecodable batch for %s: %v", path, err)
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}

		if maxItems > 0 && len(payloads) > maxItems {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"status": "error",
				"error":  "batch too large",
				"items":  len(payloads),
				"limit":  maxItems,
			})
			return
		}

		results, err := dispatcher.Dispatch(path, payloads)
		if err != nil {
			// Unreachable through normal routing: the route only exists
			// because the destination was registered.
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, results)
	}
}

// decodeBatch decodes the envelope's data field, trying the JSON codec
// first and falling back to the legacy object-literal format so old clients
// keep working against a new gateway.
func decodeBatch(data string) ([]map[string]string, error) {
	payloads, jsonErr := batchq.JSONCodec{}.DecodeBatch(data)
	if jsonErr == nil {
		return payloads, nil
	}

	payloads, legacyErr := batchq.LegacyCodec{}.DecodeBatch(data)
	if legacyErr == nil {
		logging.Debug("Gateway: Batch decoded with legacy codec")
		return payloads, nil
	}

	// Report the JSON error; it is the primary format.
	return nil, jsonErr
}
