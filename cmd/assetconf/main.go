package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/assetconf/cmd/assetconf/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug mode."`
		Version kong.VersionFlag
		Resolve commands.ResolveCmd `cmd:"" help:"Resolve the pipeline configuration and print it as JSON"`
		Build   commands.BuildCmd   `cmd:"" help:"Resolve the pipeline configuration and bundle the assets"`
		Serve   commands.ServeCmd   `cmd:"" help:"Build the assets then serve the output root"`
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	if commands.ReportConfigError(os.Stderr, err) {
		stop()
		os.Exit(1)
	}
	cmd.FatalIfErrorf(err)
}
