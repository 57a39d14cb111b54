package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const (
	instrumentation = "github.com/atmohq/atmo-backend"
	defaultService  = "atmo"
	defaultRatio    = 0.1
)

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
	// Endpoint is an OTLP/HTTP host:port. Empty means stdout in local
	// environments and no export elsewhere.
	Endpoint    string
	Headers     string
	Insecure    bool
	SampleRatio float64
}

func (c OtelConfig) service() string {
	if s := strings.TrimSpace(c.ServiceName); s != "" {
		return s
	}
	return defaultService
}

func (c OtelConfig) local() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "dev", "development", "local", "test":
		return true
	}
	return false
}

var (
	setupOnce sync.Once
	shutdown  = func(context.Context) error { return nil }
)

// InitOTel installs the global tracer provider and W3C propagators on first
// call. Later calls return the same shutdown func. Disabled config keeps the
// global no-op provider.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	setupOnce.Do(func() {
		if !cfg.Enabled {
			return
		}
		if log == nil {
			log = logger.Nop()
		}
		log = log.With("component", "otel")

		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceName(cfg.service()),
			semconv.ServiceVersion(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil {
			log.Warn("resource detection incomplete", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler(cfg.SampleRatio)),
		}
		exp, kind, err := exporter(ctx, cfg)
		switch {
		case err != nil:
			log.Warn("span exporter unavailable, spans will not be exported", "error", err)
		case exp != nil:
			opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		shutdown = tp.Shutdown
		log.Info("tracing enabled", "service", cfg.service(), "exporter", kind)
	})
	return shutdown
}

// StartSpan starts a span on the module tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}

// sampler honors the parent decision and samples new roots at ratio.
func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio <= 0:
		ratio = defaultRatio
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

func exporter(ctx context.Context, cfg OtelConfig) (sdktrace.SpanExporter, string, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		if !cfg.local() {
			return nil, "none", nil
		}
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		return exp, "stdout", err
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if h := headerMap(cfg.Headers); len(h) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(h))
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	return exp, "otlp", err
}

// headerMap parses "k1=v1,k2=v2" as used by OTEL_EXPORTER_OTLP_HEADERS.
func headerMap(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if ok && k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
