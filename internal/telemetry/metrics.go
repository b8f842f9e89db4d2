package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/assetconf"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal      metric.Int64Counter
	ResolutionErrorsTotal metric.Int64Counter
	ResolutionDuration    metric.Float64Histogram

	// Build metrics
	BuildsTotal          metric.Int64Counter
	BuildErrorsTotal     metric.Int64Counter
	BuildDuration        metric.Float64Histogram
	OutputBytes          metric.Int64Histogram
	EmittedFilesTotal    metric.Int64Counter
	CompressedFilesTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	// Resolution metrics
	m.ResolutionsTotal, _ = meter.Int64Counter(
		"assetconf.resolutions.total",
		metric.WithDescription("Total number of configuration resolutions"),
		metric.WithUnit("{resolution}"),
	)

	m.ResolutionErrorsTotal, _ = meter.Int64Counter(
		"assetconf.resolutions.errors.total",
		metric.WithDescription("Total number of failed resolutions, by error kind"),
		metric.WithUnit("{error}"),
	)

	m.ResolutionDuration, _ = meter.Float64Histogram(
		"assetconf.resolutions.duration",
		metric.WithDescription("Duration of configuration resolution"),
		metric.WithUnit("ms"),
	)

	// Build metrics
	m.BuildsTotal, _ = meter.Int64Counter(
		"assetconf.builds.total",
		metric.WithDescription("Total number of bundle builds"),
		metric.WithUnit("{build}"),
	)

	m.BuildErrorsTotal, _ = meter.Int64Counter(
		"assetconf.builds.errors.total",
		metric.WithDescription("Total number of failed bundle builds"),
		metric.WithUnit("{error}"),
	)

	m.BuildDuration, _ = meter.Float64Histogram(
		"assetconf.builds.duration",
		metric.WithDescription("Duration of bundle builds"),
		metric.WithUnit("ms"),
	)

	m.OutputBytes, _ = meter.Int64Histogram(
		"assetconf.builds.output.bytes",
		metric.WithDescription("Size of each bundle output"),
		metric.WithUnit("By"),
	)

	m.EmittedFilesTotal, _ = meter.Int64Counter(
		"assetconf.builds.emitted.total",
		metric.WithDescription("Total number of files emitted by plugin steps"),
		metric.WithUnit("{file}"),
	)

	m.CompressedFilesTotal, _ = meter.Int64Counter(
		"assetconf.builds.compressed.total",
		metric.WithDescription("Total number of compressed side files written"),
		metric.WithUnit("{file}"),
	)

	return m
}
