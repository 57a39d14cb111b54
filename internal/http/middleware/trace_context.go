package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxRequestIDLen = 128
)

// Correlate attaches a request id (client supplied when sane, generated
// otherwise) and the active trace id to the request context and response.
func Correlate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		corr := ctxutil.Correlation{RequestID: inboundRequestID(c.GetHeader(HeaderRequestID))}

		span := trace.SpanFromContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			corr.TraceID = sc.TraceID().String()
			span.SetAttributes(attribute.String("atmo.request_id", corr.RequestID))
		}

		c.Request = c.Request.WithContext(ctxutil.WithCorrelation(ctx, corr))
		c.Header(HeaderRequestID, corr.RequestID)
		if corr.TraceID != "" {
			c.Header(HeaderTraceID, corr.TraceID)
		}
		c.Next()
	}
}

func inboundRequestID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxRequestIDLen {
		return uuid.NewString()
	}
	for _, r := range v {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || r == ' ' {
			return uuid.NewString()
		}
	}
	return v
}
