package pipeline

import (
	"regexp"
	"slices"
)

const (
	// DefaultSplitGroup is the name of the dependency chunk group
	DefaultSplitGroup = "vendors"
	// ChunkScopeAll splits both initial and async chunks
	ChunkScopeAll = "all"

	defaultMinimizerTest = `/\.js(\?.*)?$/i`
)

// SplitGroup describes which modules are extracted into a shared chunk.
type SplitGroup struct {
	Name        string `json:"name"`
	TestPattern string `json:"testPattern"`
	ChunkScope  string `json:"chunkScope"`
	Priority    int    `json:"priority"`
}

// MinimizerStep configures one minification pass.
type MinimizerStep struct {
	Name            string `json:"name"`
	Test            string `json:"test"`
	// Parallel runs the minimizer across files concurrently
	Parallel        bool   `json:"parallel"`
	// ExtractComments moves comments to a side artifact instead of deleting them
	ExtractComments bool   `json:"extractComments"`
}

// OptimizationPolicy holds the chunk splitting and minification settings.
type OptimizationPolicy struct {
	SplitGroups     []SplitGroup    `json:"splitGroups"`
	MinimizeEnabled bool            `json:"minimizeEnabled"`
	Minimizers      []MinimizerStep `json:"minimizers,omitempty"`
}

// ResolveOptimization derives the optimization policy for mode. The vendor
// group always comes first, followed by any extra groups in declared order.
func ResolveOptimization(mode Mode, vendorTest string, extra ...SplitGroup) (OptimizationPolicy, error) {
	groups := make([]SplitGroup, 0, 1+len(extra))
	groups = append(groups, SplitGroup{
		Name:        DefaultSplitGroup,
		TestPattern: vendorTest,
		ChunkScope:  ChunkScopeAll,
		Priority:    1,
	})
	for _, g := range extra {
		if g.ChunkScope == "" {
			g.ChunkScope = ChunkScopeAll
		}
		groups = append(groups, g)
	}

	seen := make(map[string]struct{}, len(groups))
	for i := range groups {
		if _, dup := seen[groups[i].Name]; dup {
			return OptimizationPolicy{}, newConfigError(InvalidDeclaration, groups[i].Name, "split group declared more than once")
		}
		seen[groups[i].Name] = struct{}{}

		if _, err := CompilePattern(groups[i].TestPattern); err != nil {
			return OptimizationPolicy{}, &ConfigError{Kind: InvalidMatcher, Declaration: groups[i].TestPattern, Err: err}
		}
	}

	policy := OptimizationPolicy{
		SplitGroups:     groups,
		MinimizeEnabled: mode == Production,
	}
	if policy.MinimizeEnabled {
		policy.Minimizers = []MinimizerStep{{
			Name:            "minify",
			Test:            defaultMinimizerTest,
			Parallel:        true,
			ExtractComments: true,
		}}
	}

	return policy, nil
}

// GroupFor returns the split group applied to a module path. When several
// groups match, the highest priority wins and ties go to the first declared.
// Use Matcher when classifying many paths.
func (p OptimizationPolicy) GroupFor(modulePath string) (SplitGroup, bool) {
	m, err := p.Matcher()
	if err != nil {
		return SplitGroup{}, false
	}
	return m.GroupFor(modulePath)
}

// Matcher compiles the split group tests once.
func (p OptimizationPolicy) Matcher() (*GroupMatcher, error) {
	m := &GroupMatcher{
		groups: slices.Clone(p.SplitGroups),
		tests:  make([]*regexp.Regexp, len(p.SplitGroups)),
	}
	for i, g := range p.SplitGroups {
		test, err := CompilePattern(g.TestPattern)
		if err != nil {
			return nil, &ConfigError{Kind: InvalidMatcher, Declaration: g.TestPattern, Err: err}
		}
		m.tests[i] = test
	}
	return m, nil
}

// GroupMatcher assigns module paths to split groups using precompiled tests.
type GroupMatcher struct {
	groups []SplitGroup
	tests  []*regexp.Regexp
}

// GroupFor applies the same priority and tie-break rules as OptimizationPolicy.GroupFor.
func (m *GroupMatcher) GroupFor(modulePath string) (SplitGroup, bool) {
	best := -1
	for i, test := range m.tests {
		if !test.MatchString(modulePath) {
			continue
		}
		if best == -1 || m.groups[i].Priority > m.groups[best].Priority {
			best = i
		}
	}
	if best == -1 {
		return SplitGroup{}, false
	}
	return m.groups[best], true
}

// ExtractsComments reports whether any active minimizer keeps comments in a side artifact.
func (p OptimizationPolicy) ExtractsComments() bool {
	return p.MinimizeEnabled && slices.ContainsFunc(p.Minimizers, func(m MinimizerStep) bool {
		return m.ExtractComments
	})
}

// Matches reports whether modulePath falls into the group.
func (g SplitGroup) Matches(modulePath string) bool {
	test, err := CompilePattern(g.TestPattern)
	if err != nil {
		return false
	}
	return test.MatchString(modulePath)
}

func (p OptimizationPolicy) clone() OptimizationPolicy {
	return OptimizationPolicy{
		SplitGroups:     slices.Clone(p.SplitGroups),
		MinimizeEnabled: p.MinimizeEnabled,
		Minimizers:      slices.Clone(p.Minimizers),
	}
}
