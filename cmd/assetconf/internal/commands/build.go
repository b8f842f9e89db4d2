package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfeidau/assetconf/internal/assets"
	"github.com/wolfeidau/assetconf/internal/logger"
	"github.com/wolfeidau/assetconf/internal/pipeline"
	"github.com/wolfeidau/assetconf/internal/telemetry"
)

type BuildCmd struct {
	ConfigFlags `embed:""`

	WorkDir  string `help:"working directory the bundler resolves relative imports against" default:"" env:"ASSETCONF_WORK_DIR"`
	Metafile string `help:"metafile name written inside the output root" default:"meta.json" env:"ASSETCONF_METAFILE"`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Install(globals.Debug)

	flush := setupTelemetry(ctx, log, &c.ConfigFlags, globals)
	defer flush()

	_, report, err := c.build(ctx, log)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

// build resolves the configuration then runs one bundling pass under a span
func (c *BuildCmd) build(ctx context.Context, log zerolog.Logger) (*pipeline.ResolvedConfig, *assets.Report, error) {
	resolved, err := c.resolve(ctx, log)
	if err != nil {
		return nil, nil, err
	}

	cfg := assets.DefaultConfig()
	cfg.WorkDir = c.WorkDir
	if c.Metafile != "" {
		cfg.MetafileName = c.Metafile
	}

	p, err := assets.New(cfg, resolved)
	if err != nil {
		return nil, nil, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "assetconf.build",
		trace.WithAttributes(
			attribute.String("mode", resolved.Mode.String()),
			attribute.String("output_root", resolved.OutputRoot),
		))
	defer span.End()

	started := time.Now()
	report, err := p.Build(ctx)
	telemetry.RecordBuild(ctx, resolved.Mode, started, report)
	if err != nil {
		return nil, nil, endSpan(span, err)
	}

	span.SetAttributes(
		attribute.String("build_id", report.BuildID),
		attribute.Int("outputs", len(report.Outputs)),
		attribute.Int("emitted", len(report.Emitted)),
	)

	return resolved, report, nil
}

func printReport(w io.Writer, report *assets.Report) {
	_, _ = fmt.Fprintf(w, "%s %s build %s in %s\n",
		colorGreen.Sprint("built"),
		report.Mode,
		report.BuildID,
		report.Duration.Round(time.Millisecond),
	)

	for _, out := range report.Outputs {
		_, _ = fmt.Fprintf(w, "  %-48s %8d bytes\n", out.Path, out.Bytes)

		for _, name := range slices.Sorted(maps.Keys(out.Groups)) {
			_, _ = fmt.Fprintf(w, "    %-46s %8d bytes\n", colorYellow.Sprint(name), out.Groups[name])
		}
	}

	for _, path := range report.Emitted {
		_, _ = fmt.Fprintf(w, "  %s %s\n", colorGreen.Sprint("+"), path)
	}
}
