package pipeline

import (
	"maps"
	"slices"
)

// PluginStep is a build step declared once and filtered per mode.
type PluginStep struct {
	Name           string         `json:"name"`
	// AppliesInModes limits the step to the listed modes, empty means every mode
	AppliesInModes []Mode         `json:"appliesInModes,omitempty"`
	Options        map[string]any `json:"options,omitempty"`
}

// AppliesTo reports whether the step is active in mode.
func (p PluginStep) AppliesTo(mode Mode) bool {
	return len(p.AppliesInModes) == 0 || slices.Contains(p.AppliesInModes, mode)
}

func (p PluginStep) clone() PluginStep {
	return PluginStep{
		Name:           p.Name,
		AppliesInModes: slices.Clone(p.AppliesInModes),
		Options:        maps.Clone(p.Options),
	}
}

// ComposePlugins returns the baseline steps followed by the conditional steps
// for mode, each in declared order, dropping steps that do not apply to mode.
// The declarations are never modified so the same lists can resolve every mode.
func ComposePlugins(baseline []PluginStep, conditional map[Mode][]PluginStep, mode Mode) ([]PluginStep, error) {
	candidates := slices.Concat(baseline, conditional[mode])

	composed := make([]PluginStep, 0, len(candidates))
	active := make(map[string]struct{}, len(candidates))

	for _, step := range candidates {
		if !step.AppliesTo(mode) {
			continue
		}
		if _, dup := active[step.Name]; dup {
			return nil, newConfigError(DuplicatePlugin, step.Name, "active more than once in "+mode.String())
		}
		active[step.Name] = struct{}{}
		composed = append(composed, step.clone())
	}

	return composed, nil
}
