package api

import (
	"net/http"

	"github.com/concave-dev/batchq/internal/logging"
	"github.com/gin-gonic/gin"
)

// loggingMiddleware logs one line per request at a level matching its
// outcome. Batch POSTs are the hot path, so the line leads with method and
// destination path; 5xx means a handler or the server itself broke, 4xx is
// a client problem (bad envelope, over-cap batch, unknown destination).
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		line := "%s %s -> %d in %s from %s ua=%q"
		args := []any{
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Request.UserAgent(),
		}
		if param.ErrorMessage != "" {
			line += " err=%q"
			args = append(args, param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= http.StatusInternalServerError:
			logging.Error(line, args...)
		case param.StatusCode >= http.StatusBadRequest:
			logging.Warn(line, args...)
		default:
			logging.Info(line, args...)
		}
		return ""
	})
}

// corsMiddleware sets permissive CORS headers. The gateway batches traffic
// from browser-side callers, so cross-origin POSTs must work out of the box.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		c.Header("Access-Control-Expose-Headers", "Link")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "300")

		// Preflight requests end here
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
