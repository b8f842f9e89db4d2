package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wolfeidau/assetconf/internal/pipeline"
)

type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string                  `json:"entryPoint"`
	CSSBundle  string                  `json:"cssBundle"`
	Bytes      int                     `json:"bytes"`
	Imports    []ImportInfo            `json:"imports"`
	Inputs     map[string]InputContrib `json:"inputs"`
}

type ImportInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// Pipeline bundles the assets described by a resolved configuration
type Pipeline struct {
	config   Config
	resolved *pipeline.ResolvedConfig
	steps    []Step
	groups   *pipeline.GroupMatcher
	notes    []pipeline.Note
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a new asset pipeline for the resolved configuration. Every
// plugin step must be known to the pipeline.
func New(config Config, resolved *pipeline.ResolvedConfig) (*Pipeline, error) {
	if config.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		config.WorkDir = wd
	}
	if config.MetafileName == "" {
		config.MetafileName = DefaultConfig().MetafileName
	}
	if config.Catalog == nil {
		config.Catalog = pipeline.DefaultCatalog()
	}

	steps := make([]Step, 0, len(resolved.Plugins))
	for _, ps := range resolved.Plugins {
		factory, ok := registry[ps.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, ps.Name)
		}
		step, err := factory(resolved, ps.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to configure plugin %s: %w", ps.Name, err)
		}
		steps = append(steps, step)
	}

	groups, err := resolved.Optimization.Matcher()
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:   config,
		resolved: resolved,
		steps:    steps,
		groups:   groups,
		notes:    engineNotes(resolved),
	}, nil
}

// outputRoot returns the absolute output directory
func (p *Pipeline) outputRoot() string {
	return p.absPath(p.resolved.OutputRoot)
}

func (p *Pipeline) absPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.config.WorkDir, path)
}
