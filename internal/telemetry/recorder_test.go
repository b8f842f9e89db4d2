package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/wolfeidau/assetconf/internal/assets"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

// the metrics singleton binds to whichever provider is global on first use, so
// every test in this package shares one manual reader
var reader = func() *sdkmetric.ManualReader {
	r := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(r)))
	return r
}()

func collect(t *testing.T) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestRecordResolution(t *testing.T) {
	ctx := context.Background()

	RecordResolution(ctx, pipeline.Production, time.Now(), nil)

	_, err := pipeline.Resolve(pipeline.Production, pipeline.StaticDeclarations{})
	require.Error(t, err)
	RecordResolution(ctx, pipeline.Production, time.Now(), err)

	metrics := collect(t)
	require.GreaterOrEqual(t, sumFor(t, metrics["assetconf.resolutions.total"], "mode", "production"), int64(2))
	require.GreaterOrEqual(t, sumFor(t, metrics["assetconf.resolutions.errors.total"], "kind", string(pipeline.InvalidDeclaration)), int64(1))
}

func TestRecordBuild(t *testing.T) {
	ctx := context.Background()

	RecordBuild(ctx, pipeline.Development, time.Now(), &assets.Report{
		Outputs:    []assets.OutputReport{{Path: "dist/index.bundle.js", Bytes: 512}},
		Emitted:    []string{"dist/index.html", "dist/index.html.gz"},
		Compressed: 1,
	})
	RecordBuild(ctx, pipeline.Development, time.Now(), nil)

	metrics := collect(t)
	require.GreaterOrEqual(t, sumFor(t, metrics["assetconf.builds.total"], "mode", "development"), int64(2))
	require.GreaterOrEqual(t, sumFor(t, metrics["assetconf.builds.errors.total"], "mode", "development"), int64(1))
	require.GreaterOrEqual(t, sumFor(t, metrics["assetconf.builds.emitted.total"], "mode", "development"), int64(2))
	require.GreaterOrEqual(t, sumFor(t, metrics["assetconf.builds.compressed.total"], "mode", "development"), int64(1))
}

func TestClampRatio(t *testing.T) {
	require.InDelta(t, 0.0, clampRatio(-1), 0)
	require.InDelta(t, 0.25, clampRatio(0.25), 0)
	require.InDelta(t, 1.0, clampRatio(3), 0)
}

func TestSampler(t *testing.T) {
	require.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	require.Equal(t, sdktrace.AlwaysSample().Description(), sampler(7).Description())
	require.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	require.Equal(t, sdktrace.NeverSample().Description(), sampler(-1).Description())
	require.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), sampler(0.25).Description())
}

func TestAnnotate(t *testing.T) {
	require.NoError(t, annotate("trace shutdown", nil))

	cause := errors.New("exporter closed")
	err := annotate("trace shutdown", cause)
	require.ErrorIs(t, err, cause)
	require.EqualError(t, err, "trace shutdown: exporter closed")
}
