// Package telemetry sets up OpenTelemetry tracing for the client. When
// tracing is disabled the global no-op provider stays in place and spans
// cost nothing.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// TracerName is the instrumentation scope of the sync engine spans.
const TracerName = "github.com/MKhiriev/go-photo-sync"

type Telemetry struct {
	provider *sdktrace.TracerProvider
}

// Init installs a tracer provider exporting over OTLP gRPC. A disabled
// config returns a Telemetry whose Shutdown does nothing.
func Init(ctx context.Context, cfg config.ClientTelemetry, version string, log *logger.Logger) (*Telemetry, error) {
	if !cfg.Enabled {
		log.Debug().Str("func", "telemetry.Init").Msg("tracing disabled")
		return &Telemetry{}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
			attribute.String("component", "client"),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("error building telemetry resource: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlptracegrpc.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating otlp exporter: %w", err)
	}

	return newTelemetry(sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)), res), nil
}

func newTelemetry(processor sdktrace.TracerProviderOption, res *resource.Resource) *Telemetry {
	tp := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Telemetry{provider: tp}
}

// Tracer returns the tracer of the sync engine from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down tracer provider: %w", err)
	}
	return nil
}
