package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

// engineHashLength is the width of the content hash esbuild writes into file names
const engineHashLength = 8

var engineLoaders = map[string]api.Loader{
	pipeline.LoaderJS:       api.LoaderJS,
	pipeline.LoaderTSX:      api.LoaderTSX,
	pipeline.LoaderCSS:      api.LoaderCSS,
	pipeline.LoaderLocalCSS: api.LoaderLocalCSS,
	pipeline.LoaderFile:     api.LoaderFile,
	pipeline.LoaderDataURL:  api.LoaderDataURL,
	pipeline.LoaderText:     api.LoaderText,
	pipeline.LoaderJSON:     api.LoaderJSON,
}

// BuildOptions translates the resolved configuration into esbuild options
func (p *Pipeline) BuildOptions() api.BuildOptions {
	cfg := p.resolved
	minify := cfg.Optimization.MinimizeEnabled

	entryPoints := make([]api.EntryPoint, 0, len(cfg.EntryPoints))
	for _, ep := range cfg.EntryPoints {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  ep.Path,
			OutputPath: ep.Name,
		})
	}

	opts := api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		AbsWorkingDir:       p.config.WorkDir,
		Outdir:              p.outputRoot(),
		PublicPath:          cfg.PublicPath,
		EntryNames:          enginePattern(cfg.Naming.Pattern),
		ChunkNames:          engineChunkPattern(cfg.Naming.ChunkPattern),
		AssetNames:          cond(cfg.Naming.HashLength > 0, "[name]-[hash]", "[dir]/[name]"),
		Bundle:              true,
		Splitting:           true,
		Write:               false,
		JSX:                 api.JSXAutomatic,
		Format:              api.FormatESModule,
		Alias:               cfg.ResolveAliases,
		ResolveExtensions:   cfg.ResolveExtensions,
		MinifyWhitespace:    minify,
		MinifyIdentifiers:   minify,
		MinifySyntax:        minify,
		TreeShaking:         api.TreeShakingTrue,
		LegalComments:       cond(cfg.Optimization.ExtractsComments(), api.LegalCommentsExternal, api.LegalCommentsDefault),
		Sourcemap:           cond(cfg.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Metafile:            true,
		LogLevel:            api.LogLevelSilent,
		Plugins:             []api.Plugin{p.rulesPlugin()},
	}

	if len(opts.ResolveExtensions) == 0 {
		opts.ResolveExtensions = nil
	}

	for _, step := range p.steps {
		if c, ok := step.(Configurer); ok {
			c.Configure(&opts)
		}
	}

	return opts
}

// rulesPlugin applies the rule table to every file esbuild loads. Files
// without a matching rule fall through to esbuild's own loaders.
func (p *Pipeline) rulesPlugin() api.Plugin {
	rules := p.resolved.Rules
	catalog := p.config.Catalog

	return api.Plugin{
		Name: "asset-rules",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: "file"}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				loader, ok := engineLoader(rules, catalog, args.Path)
				if !ok {
					return api.OnLoadResult{}, nil
				}

				data, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				contents := string(data)

				return api.OnLoadResult{
					Contents:   &contents,
					Loader:     loader,
					ResolveDir: filepath.Dir(args.Path),
				}, nil
			})
		},
	}
}

// engineLoader looks up the loader for path using first-match rule semantics
func engineLoader(rules *pipeline.RuleTable, catalog pipeline.TransformCatalog, path string) (api.Loader, bool) {
	rule, ok := rules.Lookup(filepath.ToSlash(path))
	if !ok {
		return api.LoaderNone, false
	}

	id := catalog.Loader(rule.Transforms)
	// plain .ts files cannot contain JSX, and parsing them as TSX breaks generic arrows
	if id == pipeline.LoaderTSX && strings.HasSuffix(path, ".ts") {
		return api.LoaderTS, true
	}

	loader, ok := engineLoaders[id]
	return loader, ok
}

// enginePattern converts a naming template into an esbuild name pattern.
// esbuild appends the extension itself and has no query placeholder.
func enginePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, pipeline.PlaceholderQuery, "")
	for _, suffix := range []string{"." + pipeline.PlaceholderExt, ".js", ".mjs"} {
		if trimmed, ok := strings.CutSuffix(pattern, suffix); ok {
			return trimmed
		}
	}
	return pattern
}

// engineChunkPattern is enginePattern for shared chunks. esbuild names every
// shared chunk "chunk", so a pattern without a hash is given one to keep the
// file names distinct.
func engineChunkPattern(pattern string) string {
	pattern = enginePattern(pattern)
	if !strings.Contains(pattern, pipeline.PlaceholderHash) {
		pattern += "-" + pipeline.PlaceholderHash
	}
	return pattern
}

// engineNotes reports resolved settings esbuild cannot honour exactly
func engineNotes(cfg *pipeline.ResolvedConfig) []pipeline.Note {
	var notes []pipeline.Note
	if n := cfg.Naming.HashLength; n > 0 && n != engineHashLength {
		notes = append(notes, pipeline.Note{
			Component: "naming",
			Message:   fmt.Sprintf("hash length %d not supported by the bundler, file names use %d characters", n, engineHashLength),
		})
	}
	return notes
}
