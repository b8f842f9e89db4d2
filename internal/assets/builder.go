package assets

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/assetconf/internal/logger"
)

// Build runs esbuild with the resolved settings, writes the outputs, then runs
// the emitting plugin steps in composed order
func (p *Pipeline) Build(ctx context.Context) (*Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := time.Now()
	buildID := uuid.NewString()
	buildLog := logger.WithBuild(log.Logger, p.resolved.Mode.String(), buildID)

	entryPoints := make([]string, 0, len(p.resolved.EntryPoints))
	for _, ep := range p.resolved.EntryPoints {
		entryPoints = append(entryPoints, ep.Path)
	}
	buildLog.Info().Strs("entrypoints", entryPoints).Msg("Building assets")
	for _, note := range p.notes {
		buildLog.Warn().Str("component", note.Component).Msg(note.Message)
	}

	result := api.Build(p.BuildOptions())

	for _, msg := range result.Warnings {
		buildLog.Warn().Str("warning", msg.Text).Msg("Build warning")
	}
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			buildLog.Error().Str("error", msg.Text).Msg("Build error")
		}
		return nil, errors.New("esbuild failed with errors")
	}

	em := &Emission{OutputRoot: p.outputRoot()}
	for _, file := range result.OutputFiles {
		if err := os.MkdirAll(filepath.Dir(file.Path), 0750); err != nil {
			return nil, err
		}
		if err := os.WriteFile(file.Path, file.Contents, 0600); err != nil {
			return nil, err
		}
		buildLog.Info().Str("file", file.Path).Msg("Built file")
		em.Files = append(em.Files, EmittedFile{Path: file.Path, Contents: file.Contents})
	}

	// Write metafile
	if err := os.WriteFile(filepath.Join(em.OutputRoot, p.config.MetafileName), []byte(result.Metafile), 0600); err != nil {
		return nil, err
	}

	// Parse and cache metadata
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return nil, err
	}
	p.metadata = &metadata
	em.Metadata = &metadata

	for _, ep := range p.resolved.EntryPoints {
		scripts, styles, err := p.loadScripts(ep.Name)
		if err != nil {
			return nil, err
		}
		em.Scripts = appendUnique(em.Scripts, scripts...)
		em.Styles = appendUnique(em.Styles, styles...)
	}

	builtFiles := len(em.Files)
	for _, step := range p.steps {
		emitter, ok := step.(Emitter)
		if !ok {
			continue
		}
		if err := emitter.Emit(ctx, em); err != nil {
			return nil, fmt.Errorf("plugin %s failed: %w", step.Name(), err)
		}
	}

	report := &Report{
		BuildID:  buildID,
		Mode:     p.resolved.Mode,
		Notes:    slices.Clone(p.notes),
		Outputs:  classifyOutputs(&metadata, p.groups, p.config.WorkDir),
		Duration: time.Since(started),
	}
	for _, f := range em.Files[builtFiles:] {
		report.Emitted = append(report.Emitted, f.Path)
		if f.Compressed {
			report.Compressed++
		}
	}

	buildLog.Info().
		Int("outputs", len(report.Outputs)).
		Int("emitted", len(report.Emitted)).
		Int("compressed", report.Compressed).
		Dur("duration", report.Duration).
		Msg("Build complete")

	return report, nil
}

// LoadScripts returns the ordered list of script URLs needed for the given
// entry point name, the entry script first
func (p *Pipeline) LoadScripts(entryName string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	scripts, _, err := p.loadScripts(entryName)
	return scripts, err
}

func (p *Pipeline) loadScripts(entryName string) ([]string, []string, error) {
	if p.metadata == nil {
		return nil, nil, errors.New("assets not built yet, call Build() first")
	}

	var entryPath string
	for _, ep := range p.resolved.EntryPoints {
		if ep.Name == entryName {
			entryPath = p.metafilePath(ep.Path)
		}
	}
	if entryPath == "" {
		return nil, nil, fmt.Errorf("unknown entrypoint %q", entryName)
	}

	// Sorted so the result does not depend on map iteration
	outputs := slices.Sorted(maps.Keys(p.metadata.Outputs))

	for _, outputPath := range outputs {
		info := p.metadata.Outputs[outputPath]
		if info.EntryPoint != entryPath {
			continue
		}

		scripts := []string{p.publicURL(outputPath)}
		visited := map[string]bool{outputPath: true}
		p.addDependencies(info, &scripts, visited)

		var styles []string
		if info.CSSBundle != "" {
			styles = append(styles, p.publicURL(info.CSSBundle))
		}
		return scripts, styles, nil
	}

	return nil, nil, errors.New("entrypoint not found in metadata")
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if imp.Kind == "dynamic-import" || visited[imp.Path] {
			continue
		}
		chunkInfo, exists := p.metadata.Outputs[imp.Path]
		if !exists {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, p.publicURL(imp.Path))
		p.addDependencies(chunkInfo, scripts, visited)
	}
}

// metafilePath converts a path into the working directory relative form esbuild uses in metafiles
func (p *Pipeline) metafilePath(file string) string {
	rel, err := filepath.Rel(p.config.WorkDir, p.absPath(file))
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

// publicURL maps a metafile output path to the URL it is served from
func (p *Pipeline) publicURL(outputPath string) string {
	rel, err := filepath.Rel(p.outputRoot(), p.absPath(filepath.FromSlash(outputPath)))
	if err != nil {
		rel = outputPath
	}
	base := p.resolved.PublicPath
	if base == "" {
		base = "/"
	}
	return path.Join(base, filepath.ToSlash(rel))
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
