package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wolfeidau/assetconf/internal/assets"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

// RecordResolution records one Resolve call. Failures are counted by their
// ConfigError kind, or "unknown" for anything else.
func RecordResolution(ctx context.Context, mode pipeline.Mode, started time.Time, err error) {
	m := GetMetrics()
	modeAttr := attribute.String("mode", mode.String())

	m.ResolutionsTotal.Add(ctx, 1, metric.WithAttributes(modeAttr))
	m.ResolutionDuration.Record(ctx, msSince(started), metric.WithAttributes(modeAttr))

	if err != nil {
		kind := "unknown"
		if k, ok := pipeline.KindOf(err); ok {
			kind = string(k)
		}
		m.ResolutionErrorsTotal.Add(ctx, 1, metric.WithAttributes(modeAttr, attribute.String("kind", kind)))
	}
}

// RecordBuild records a finished build from its report. A nil report records
// a failed build.
func RecordBuild(ctx context.Context, mode pipeline.Mode, started time.Time, report *assets.Report) {
	m := GetMetrics()
	modeAttr := metric.WithAttributes(attribute.String("mode", mode.String()))

	m.BuildsTotal.Add(ctx, 1, modeAttr)
	m.BuildDuration.Record(ctx, msSince(started), modeAttr)

	if report == nil {
		m.BuildErrorsTotal.Add(ctx, 1, modeAttr)
		return
	}

	for _, out := range report.Outputs {
		m.OutputBytes.Record(ctx, int64(out.Bytes), modeAttr)
	}

	m.EmittedFilesTotal.Add(ctx, int64(len(report.Emitted)), modeAttr)
	m.CompressedFilesTotal.Add(ctx, int64(report.Compressed), modeAttr)
}

func msSince(started time.Time) float64 {
	return float64(time.Since(started).Microseconds()) / 1000
}
