package pipeline

import (
	"maps"
	"slices"
	"sort"
)

// Loader identifiers understood by the bundling engine.
const (
	LoaderJS       = "js"
	LoaderTSX      = "tsx"
	LoaderCSS      = "css"
	LoaderLocalCSS = "local-css"
	LoaderFile     = "file"
	LoaderDataURL  = "dataurl"
	LoaderText     = "text"
	LoaderJSON     = "json"
)

// TransformStep is one named step in a transform chain.
type TransformStep struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

// TransformSpec describes a transform step the pipeline knows how to configure.
type TransformSpec struct {
	// Options is the set of recognised option keys
	Options []string
	// Loader is the engine loader the step produces
	Loader string
}

// TransformCatalog maps a transform step identifier to its TransformSpec.
type TransformCatalog map[string]TransformSpec

// DefaultCatalog returns the transform steps used by a typical TypeScript and
// Sass front end.
func DefaultCatalog() TransformCatalog {
	return TransformCatalog{
		"typescript": {Options: []string{"configFile", "transpileOnly"}, Loader: LoaderTSX},
		"source-map": {Loader: LoaderJS},
		"style":      {Options: []string{"injectType"}, Loader: LoaderCSS},
		"css":        {Options: []string{"sourceMap", "modules"}, Loader: LoaderCSS},
		"sass":       {Options: []string{"sourceMap"}, Loader: LoaderCSS},
		"file":       {Options: []string{"name"}, Loader: LoaderFile},
		"image":      {Options: []string{"disable"}, Loader: LoaderFile},
		"url":        {Options: []string{"limit"}, Loader: LoaderDataURL},
		"json":       {Loader: LoaderJSON},
		"text":       {Loader: LoaderText},
	}
}

func (c TransformCatalog) validate(matcher string, step TransformStep) error {
	entry, ok := c[step.Name]
	if !ok {
		return newConfigError(UnknownTransformStep, matcher, "step "+step.Name)
	}

	// sorted so the reported key does not depend on map iteration
	keys := slices.Collect(maps.Keys(step.Options))
	sort.Strings(keys)
	for _, key := range keys {
		if !slices.Contains(entry.Options, key) {
			return newConfigError(UnknownTransformOption, matcher, "step "+step.Name+" option "+key)
		}
	}
	return nil
}

// Loader returns the engine loader for a transform chain. The first step of
// the chain decides, with css modules switching to the scoped css loader.
func (c TransformCatalog) Loader(chain []TransformStep) string {
	if len(chain) == 0 {
		return ""
	}
	loader := c[chain[0].Name].Loader
	if loader == LoaderCSS {
		for _, step := range chain {
			if modules, _ := step.Options["modules"].(bool); modules {
				return LoaderLocalCSS
			}
		}
	}
	return loader
}

func cloneSteps(steps []TransformStep) []TransformStep {
	if steps == nil {
		return nil
	}
	out := make([]TransformStep, len(steps))
	for i, step := range steps {
		out[i] = TransformStep{Name: step.Name, Options: maps.Clone(step.Options)}
	}
	return out
}
