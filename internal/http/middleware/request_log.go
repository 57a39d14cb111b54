package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

// RequestLogger writes one access line per request. Health checks and
// preflights log at debug so they do not drown chat traffic.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		if corr, ok := ctxutil.CorrelationFrom(c.Request.Context()); ok {
			kv = append(kv, "request_id", corr.RequestID)
			if corr.TraceID != "" {
				kv = append(kv, "trace_id", corr.TraceID)
			}
		}
		if uid := ctxutil.UserID(c.Request.Context()); uid != uuid.Nil {
			kv = append(kv, "user_id", uid.String())
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			kv = append(kv, "errors", errs.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", kv...)
		case status >= 400:
			log.Warn("request rejected", kv...)
		case route == "/healthcheck" || c.Request.Method == "OPTIONS":
			log.Debug("request", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}
