package pipeline

import (
	"maps"
	"slices"
)

// EntryPoint names one bundle entry.
type EntryPoint struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// StaticDeclarations is the declaration bundle produced by configuration
// loading. It is read only once resolution starts.
type StaticDeclarations struct {
	EntryPoints []EntryPoint
	OutputRoot  string
	PublicPath  string
	Naming      NamingTemplate
	Rules       []AssetRule
	Baseline    []PluginStep
	Conditional map[Mode][]PluginStep
	VendorTest  string
	SplitGroups []SplitGroup
	Aliases     map[string]string
	Extensions  []string
}

func (d StaticDeclarations) validate() error {
	if len(d.EntryPoints) == 0 {
		return newConfigError(InvalidDeclaration, "entryPoints", "at least one entry point is required")
	}
	names := make(map[string]struct{}, len(d.EntryPoints))
	for _, ep := range d.EntryPoints {
		if ep.Name == "" || ep.Path == "" {
			return newConfigError(InvalidDeclaration, ep.Name, "entry point needs a name and a path")
		}
		if _, dup := names[ep.Name]; dup {
			return newConfigError(InvalidDeclaration, ep.Name, "entry point declared more than once")
		}
		names[ep.Name] = struct{}{}
	}
	if d.OutputRoot == "" {
		return newConfigError(InvalidDeclaration, "outputRoot", "output root is required")
	}
	if d.VendorTest == "" {
		return newConfigError(InvalidDeclaration, "vendorTest", "vendor test pattern is required")
	}
	return nil
}

func cloneAliases(aliases map[string]string) map[string]string {
	if aliases == nil {
		return map[string]string{}
	}
	return maps.Clone(aliases)
}

func cloneExtensions(exts []string) []string {
	if exts == nil {
		return []string{}
	}
	return slices.Clone(exts)
}
