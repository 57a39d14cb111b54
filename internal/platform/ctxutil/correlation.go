package ctxutil

import "context"

type correlationKey struct{}

// Correlation ties log lines, spans and responses of one HTTP request together.
type Correlation struct {
	RequestID string
	TraceID   string
}

func WithCorrelation(ctx context.Context, c Correlation) context.Context {
	return context.WithValue(ctx, correlationKey{}, c)
}

func CorrelationFrom(ctx context.Context) (Correlation, bool) {
	c, ok := ctx.Value(correlationKey{}).(Correlation)
	return c, ok
}

// RequestID returns the request id attached by the HTTP layer, or "".
func RequestID(ctx context.Context) string {
	c, _ := CorrelationFrom(ctx)
	return c.RequestID
}
