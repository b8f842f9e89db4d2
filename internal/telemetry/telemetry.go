package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// exportInterval is longer than any build, so metrics are only pushed by the
// final collection in shutdown
const exportInterval = time.Hour

// InitTelemetry installs OTLP trace and meter providers for a single command
// run. Exporters read the standard OTEL_EXPORTER_OTLP_* variables.
//
// The returned shutdown exports buffered spans first, then collects and
// exports every metric once. It must run before the process exits.
func InitTelemetry(ctx context.Context, serviceName, version string, sampleRatio float64) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(sampleRatio)),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(exportInterval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	log.Debug().
		Str("service", serviceName).
		Str("version", version).
		Float64("sample_ratio", clampRatio(sampleRatio)).
		Msg("OpenTelemetry initialized")

	return func(ctx context.Context) error {
		return errors.Join(
			annotate("trace shutdown", tp.Shutdown(ctx)),
			annotate("metric shutdown", mp.Shutdown(ctx)),
		)
	}, nil
}

// Tracer returns the tracer used for resolution and build spans
func Tracer() trace.Tracer {
	return otel.Tracer(meterName)
}

func sampler(ratio float64) sdktrace.Sampler {
	switch ratio = clampRatio(ratio); ratio {
	case 1:
		return sdktrace.AlwaysSample()
	case 0:
		return sdktrace.NeverSample()
	}
	return sdktrace.TraceIDRatioBased(ratio)
}

func clampRatio(ratio float64) float64 {
	return min(max(ratio, 0), 1)
}

func annotate(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
