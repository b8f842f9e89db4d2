package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/wolfeidau/assetconf/internal/logger"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

type ResolveCmd struct {
	ConfigFlags `embed:""`

	Compact bool `help:"print compact JSON" default:"false"`
}

type resolveOutput struct {
	Fingerprint string                   `json:"fingerprint"`
	Config      *pipeline.ResolvedConfig `json:"config"`
}

func (c *ResolveCmd) Run(ctx context.Context, globals *Globals) error {
	return c.run(ctx, globals, os.Stdout)
}

func (c *ResolveCmd) run(ctx context.Context, globals *Globals, out io.Writer) error {
	log := logger.Install(globals.Debug)

	flush := setupTelemetry(ctx, log, &c.ConfigFlags, globals)
	defer flush()

	resolved, err := c.resolve(ctx, log)
	if err != nil {
		return err
	}

	fingerprint, err := resolved.Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint configuration: %w", err)
	}

	enc := json.NewEncoder(out)
	if !c.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(resolveOutput{Fingerprint: fingerprint, Config: resolved}); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}
