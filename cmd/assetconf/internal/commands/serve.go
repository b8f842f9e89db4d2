package commands

import (
	"context"
	"os"

	"github.com/wolfeidau/assetconf/internal/devserver"
	"github.com/wolfeidau/assetconf/internal/logger"
)

type ServeCmd struct {
	BuildCmd `embed:""`

	Listen      string   `help:"dev server listen address" default:"127.0.0.1:9000" env:"ASSETCONF_LISTEN"`
	CORSOrigins []string `help:"allowed CORS origins, CORS is disabled when empty" env:"ASSETCONF_CORS_ORIGINS"`
	NoCompress  bool     `help:"disable gzip compression of responses" default:"false" env:"ASSETCONF_NO_COMPRESS"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Install(globals.Debug)

	flush := setupTelemetry(ctx, log, &c.ConfigFlags, globals)
	defer flush()

	resolved, report, err := c.build(ctx, log)
	if err != nil {
		return err
	}
	printReport(os.Stdout, report)

	cfg := devserver.DefaultConfig(resolved.OutputRoot)
	cfg.Addr = c.Listen
	cfg.Compress = !c.NoCompress
	cfg.CORSOrigins = c.CORSOrigins

	log.Info().Str("addr", c.Listen).Str("root", resolved.OutputRoot).Msg("Serving assets")

	return devserver.Run(ctx, cfg)
}
