package observability

import (
	"context"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

const defaultServiceName = "course-portal-backend"

// OtelConfig is filled by the app config loader.
type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
	SampleRatio float64
	// Endpoint is an OTLP/HTTP host:port. Empty means spans go to stdout.
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// sampler clamps the ratio into [0,1].
func (c OtelConfig) sampler() sdktrace.Sampler {
	ratio := c.SampleRatio
	if math.IsNaN(ratio) {
		ratio = 0
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(math.Min(1, math.Max(0, ratio))))
}

func (c OtelConfig) serviceName() string {
	if name := strings.TrimSpace(c.ServiceName); name != "" {
		return name
	}
	return defaultServiceName
}

func noopShutdown(context.Context) error { return nil }

// InitOTel installs the global tracer provider and propagator. The returned
// shutdown func is never nil. When tracing is off, it does nothing.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	if !cfg.Enabled {
		return noopShutdown
	}
	tp, err := newTracerProvider(ctx, cfg)
	if err != nil && log != nil {
		log.Warn("otel exporter unavailable, spans are sampled but dropped", "error", err)
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if log != nil {
		log.Info("otel tracing initialized", "service", cfg.serviceName(), "endpoint", cfg.Endpoint, "ratio", cfg.SampleRatio)
	}
	return tp.Shutdown
}

// newTracerProvider always returns a usable provider. A failed exporter leaves it without one.
func newTracerProvider(ctx context.Context, cfg OtelConfig) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(cfg.sampler()),
		sdktrace.WithResource(newResource(cfg)),
	}
	exp, err := newExporter(ctx, cfg)
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
	}
	return sdktrace.NewTracerProvider(opts...), err
}

func newResource(cfg OtelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.serviceName()),
		semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
		attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
	)
}

func newExporter(ctx context.Context, cfg OtelConfig) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return otlptracehttp.New(ctx, opts...)
}
