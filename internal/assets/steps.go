package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

var (
	// ErrUnknownPlugin indicates a plugin step the pipeline cannot run
	ErrUnknownPlugin = errors.New("unknown plugin step")
	// ErrInvalidPluginOption indicates a plugin option with the wrong type or value
	ErrInvalidPluginOption = errors.New("invalid plugin option")
)

// Step is a plugin step instantiated from a resolved PluginStep.
type Step interface {
	Name() string
}

// Configurer is implemented by steps that adjust the esbuild options before the build.
type Configurer interface {
	Configure(opts *api.BuildOptions)
}

// Emitter is implemented by steps that produce files after the build. Emitters
// run in composed order and see every file emitted before them.
type Emitter interface {
	Emit(ctx context.Context, em *Emission) error
}

// EmittedFile is a file written to the output root.
type EmittedFile struct {
	Path       string
	Contents   []byte
	// Compressed marks side files written by a compression step
	Compressed bool
}

// Emission collects the files produced by a build.
type Emission struct {
	// OutputRoot is the absolute directory files are written to
	OutputRoot string
	Metadata   *BuildMetadata
	Files      []EmittedFile
	// Scripts and Styles hold the public URLs for each entry point, in entry order
	Scripts []string
	Styles  []string
}

type stepFactory func(cfg *pipeline.ResolvedConfig, options map[string]any) (Step, error)

var registry = map[string]stepFactory{
	"define":   newDefineStep,
	"html":     newHTMLStep,
	"compress": newCompressStep,
}

func stringOption(options map[string]any, key, fallback string) (string, error) {
	v, ok := options[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidPluginOption, key)
	}
	return s, nil
}

func intOption(options map[string]any, key string, fallback int) (int, error) {
	v, ok := options[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidPluginOption, key)
}
