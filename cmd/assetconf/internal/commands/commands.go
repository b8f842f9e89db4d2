package commands

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfeidau/assetconf/internal/declare"
	"github.com/wolfeidau/assetconf/internal/pipeline"
	"github.com/wolfeidau/assetconf/internal/telemetry"
)

type Globals struct {
	Debug   bool
	Version string
}

// ConfigFlags select the declarations and build mode shared by every command.
type ConfigFlags struct {
	Config      string  `help:"path to a declaration file (.yaml, .yml or .json), defaults to the built-in single page app layout" default:"" env:"ASSETCONF_CONFIG"`
	Root        string  `help:"project root used by the built-in declarations" default:"." env:"ASSETCONF_ROOT"`
	NodeEnv     string  `help:"build mode, development selects development and anything else production" name:"node-env" default:"" env:"NODE_ENV"`
	Tracing     bool    `help:"enable tracing" default:"false" env:"ASSETCONF_TRACING"`
	SampleRatio float64 `help:"fraction of traces sampled when tracing" default:"1" env:"ASSETCONF_TRACE_SAMPLE_RATIO"`
}

// Mode returns the build mode selected by --node-env or NODE_ENV
func (f *ConfigFlags) Mode() pipeline.Mode {
	return pipeline.ParseMode(f.NodeEnv)
}

func (f *ConfigFlags) declarations() (pipeline.StaticDeclarations, error) {
	if f.Config != "" {
		return declare.Load(f.Config)
	}

	abs, err := absDir(cmp.Or(f.Root, "."))
	if err != nil {
		return pipeline.StaticDeclarations{}, err
	}
	return declare.Default(abs), nil
}

// resolve loads the declarations and resolves them for the selected mode,
// recording a span and resolution metrics
func (f *ConfigFlags) resolve(ctx context.Context, log zerolog.Logger) (*pipeline.ResolvedConfig, error) {
	mode := f.Mode()

	ctx, span := telemetry.Tracer().Start(ctx, "assetconf.resolve",
		trace.WithAttributes(attribute.String("mode", mode.String())))
	defer span.End()

	decls, err := f.declarations()
	if err != nil {
		return nil, endSpan(span, err)
	}

	started := time.Now()
	resolved, err := pipeline.NewResolver().Resolve(mode, decls)
	telemetry.RecordResolution(ctx, mode, started, err)
	if err != nil {
		return nil, endSpan(span, err)
	}

	for _, note := range resolved.Notes {
		log.Warn().Str("component", note.Component).Msg(note.Message)
	}

	log.Debug().
		Str("mode", mode.String()).
		Int("rules", resolved.Rules.Len()).
		Int("plugins", len(resolved.Plugins)).
		Msg("Resolved configuration")

	return resolved, nil
}

func endSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if kind, ok := pipeline.KindOf(err); ok {
		span.SetAttributes(attribute.String("error.kind", string(kind)))
	}
	return err
}

// setupTelemetry initialises OpenTelemetry when tracing is enabled and returns
// a function flushing it, which is always safe to call
func setupTelemetry(ctx context.Context, log zerolog.Logger, flags *ConfigFlags, globals *Globals) func() {
	if !flags.Tracing {
		return func() {}
	}

	log.Info().Msg("Tracing is enabled")
	shutdown, err := telemetry.InitTelemetry(ctx, "assetconf", globals.Version, flags.SampleRatio)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown telemetry")
		}
	}
}

func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root not found: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", abs)
	}
	return abs, nil
}
