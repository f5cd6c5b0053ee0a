package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
)

// LoggerMiddleware assigns a request id and writes one structured line per request
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		// Later middleware may have replaced the request context.
		ctx := log.WithFields(c.Request.Context(), map[string]any{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})

		for _, e := range c.Errors {
			if e.IsType(gin.ErrorTypeBind) {
				log.Debug(log.WithField(ctx, "error", e.Error()), "request body not bound")
				continue
			}
			log.Error(ctx, "request error", e.Err)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Warn(ctx, "request failed")
		case status >= 400:
			log.Info(ctx, "request rejected")
		default:
			log.Info(ctx, "request completed")
		}
	}
}
