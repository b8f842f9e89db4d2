// Package declare loads static declaration bundles for the resolver.
package declare

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assetconf/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for declaration files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported declaration file format")

// File is the on-disk form of a declaration bundle.
type File struct {
	Entry       Entries             `yaml:"entry" json:"entry"`
	OutputRoot  string              `yaml:"outputRoot" json:"outputRoot"`
	PublicPath  string              `yaml:"publicPath" json:"publicPath"`
	Naming      Naming              `yaml:"naming" json:"naming"`
	Rules       []Rule              `yaml:"rules" json:"rules"`
	Plugins     []Plugin            `yaml:"plugins" json:"plugins"`
	Conditional map[string][]Plugin `yaml:"conditional" json:"conditional"`
	VendorTest  string              `yaml:"vendorTest" json:"vendorTest"`
	SplitGroups []SplitGroup        `yaml:"splitGroups" json:"splitGroups"`
	Resolve     Resolve             `yaml:"resolve" json:"resolve"`
}

type Naming struct {
	Filename      string `yaml:"filename" json:"filename"`
	ChunkFilename string `yaml:"chunkFilename" json:"chunkFilename"`
	HashLength    int    `yaml:"hashLength" json:"hashLength"`
}

type Rule struct {
	Test    string `yaml:"test" json:"test"`
	Exclude string `yaml:"exclude" json:"exclude"`
	Use     []Step `yaml:"use" json:"use"`
}

type Step struct {
	Loader  string         `yaml:"loader" json:"loader"`
	Options map[string]any `yaml:"options" json:"options"`
}

type Plugin struct {
	Name    string         `yaml:"name" json:"name"`
	Modes   []string       `yaml:"modes" json:"modes"`
	Options map[string]any `yaml:"options" json:"options"`
}

type SplitGroup struct {
	Name       string `yaml:"name" json:"name"`
	Test       string `yaml:"test" json:"test"`
	ChunkScope string `yaml:"chunks" json:"chunks"`
	Priority   int    `yaml:"priority" json:"priority"`
}

type Resolve struct {
	Alias      map[string]string `yaml:"alias" json:"alias"`
	Extensions []string          `yaml:"extensions" json:"extensions"`
}

// Load reads a declaration file and converts it to pipeline declarations.
// Relative paths in the file resolve against the file's directory.
func Load(path string) (pipeline.StaticDeclarations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.StaticDeclarations{}, fmt.Errorf("failed to read declarations: %w", err)
	}

	// unknown keys are authoring mistakes, so both decoders run strict
	var file File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&file)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	default:
		return pipeline.StaticDeclarations{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return pipeline.StaticDeclarations{}, fmt.Errorf("failed to parse declarations %s: %w", path, err)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return pipeline.StaticDeclarations{}, err
	}

	decls, err := file.Declarations(root)
	if err != nil {
		return pipeline.StaticDeclarations{}, err
	}

	log.Debug().
		Str("file", path).
		Int("entrypoints", len(decls.EntryPoints)).
		Int("rules", len(decls.Rules)).
		Msg("Loaded declarations")

	return decls, nil
}

// Declarations converts the file form, resolving relative paths against root.
func (f File) Declarations(root string) (pipeline.StaticDeclarations, error) {
	decls := pipeline.StaticDeclarations{
		EntryPoints: entryPoints(f.Entry, root),
		OutputRoot:  absPath(root, f.OutputRoot),
		PublicPath:  f.PublicPath,
		Naming: pipeline.NamingTemplate{
			Pattern:      f.Naming.Filename,
			ChunkPattern: f.Naming.ChunkFilename,
			HashLength:   f.Naming.HashLength,
		},
		VendorTest: f.VendorTest,
		Extensions: f.Resolve.Extensions,
	}

	for _, g := range f.SplitGroups {
		decls.SplitGroups = append(decls.SplitGroups, pipeline.SplitGroup{
			Name:        g.Name,
			TestPattern: g.Test,
			ChunkScope:  g.ChunkScope,
			Priority:    g.Priority,
		})
	}

	if len(f.Resolve.Alias) > 0 {
		decls.Aliases = make(map[string]string, len(f.Resolve.Alias))
		for name, target := range f.Resolve.Alias {
			decls.Aliases[name] = absPath(root, target)
		}
	}

	for _, r := range f.Rules {
		rule := pipeline.AssetRule{Matcher: r.Test, Exclude: r.Exclude}
		for _, s := range r.Use {
			rule.Transforms = append(rule.Transforms, pipeline.TransformStep{Name: s.Loader, Options: s.Options})
		}
		decls.Rules = append(decls.Rules, rule)
	}

	var err error
	decls.Baseline, err = plugins(f.Plugins)
	if err != nil {
		return pipeline.StaticDeclarations{}, err
	}

	if len(f.Conditional) > 0 {
		decls.Conditional = make(map[pipeline.Mode][]pipeline.PluginStep, len(f.Conditional))
		for name, list := range f.Conditional {
			mode, err := pipeline.ParseModeStrict(name)
			if err != nil {
				return pipeline.StaticDeclarations{}, err
			}
			if decls.Conditional[mode], err = plugins(list); err != nil {
				return pipeline.StaticDeclarations{}, err
			}
		}
	}

	return decls, nil
}

func plugins(list []Plugin) ([]pipeline.PluginStep, error) {
	steps := make([]pipeline.PluginStep, 0, len(list))
	for _, p := range list {
		step := pipeline.PluginStep{Name: p.Name, Options: p.Options}
		for _, name := range p.Modes {
			mode, err := pipeline.ParseModeStrict(name)
			if err != nil {
				return nil, err
			}
			step.AppliesInModes = append(step.AppliesInModes, mode)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func entryPoints(entries Entries, root string) []pipeline.EntryPoint {
	eps := make([]pipeline.EntryPoint, 0, len(entries))
	for _, e := range entries {
		eps = append(eps, pipeline.EntryPoint{Name: e.Name, Path: absPath(root, e.Path)})
	}
	return eps
}

func absPath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
