package assets

import (
	"fmt"
	"maps"

	"github.com/evanw/esbuild/pkg/api"
	json "github.com/goccy/go-json"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

const nodeEnvKey = "process.env.NODE_ENV"

// defineStep replaces global identifiers with build time constants
type defineStep struct {
	values map[string]string
}

func newDefineStep(cfg *pipeline.ResolvedConfig, options map[string]any) (Step, error) {
	values := map[string]string{
		nodeEnvKey: fmt.Sprintf("%q", cfg.Mode.String()),
	}
	for key, v := range options {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: define %s: %w", ErrInvalidPluginOption, key, err)
		}
		values[key] = string(data)
	}
	return &defineStep{values: values}, nil
}

func (d *defineStep) Name() string { return "define" }

func (d *defineStep) Configure(opts *api.BuildOptions) {
	if opts.Define == nil {
		opts.Define = make(map[string]string, len(d.values))
	}
	maps.Copy(opts.Define, d.values)
}
