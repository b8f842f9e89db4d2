package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOptimization_DefaultGroup(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			policy, err := ResolveOptimization(mode, `[\\/]node_modules[\\/]`)
			require.NoError(t, err)
			require.Len(t, policy.SplitGroups, 1)
			require.Equal(t, SplitGroup{
				Name:        DefaultSplitGroup,
				TestPattern: `[\\/]node_modules[\\/]`,
				ChunkScope:  ChunkScopeAll,
				Priority:    1,
			}, policy.SplitGroups[0])
		})
	}
}

func TestResolveOptimization_Minimize(t *testing.T) {
	dev, err := ResolveOptimization(Development, "/node_modules/")
	require.NoError(t, err)
	require.False(t, dev.MinimizeEnabled)
	require.Empty(t, dev.Minimizers)
	require.False(t, dev.ExtractsComments())

	prod, err := ResolveOptimization(Production, "/node_modules/")
	require.NoError(t, err)
	require.True(t, prod.MinimizeEnabled)
	require.Len(t, prod.Minimizers, 1)
	require.True(t, prod.Minimizers[0].Parallel)
	require.True(t, prod.Minimizers[0].ExtractComments)
	require.True(t, prod.ExtractsComments())
}

func TestOptimizationPolicy_GroupFor(t *testing.T) {
	policy, err := ResolveOptimization(Production, "/node_modules/",
		SplitGroup{Name: "react", TestPattern: "/node_modules/react/", Priority: 10},
		SplitGroup{Name: "shared", TestPattern: "/src/shared/", Priority: 1},
	)
	require.NoError(t, err)

	group, ok := policy.GroupFor("/app/node_modules/react/index.js")
	require.True(t, ok)
	require.Equal(t, "react", group.Name)

	group, ok = policy.GroupFor("/app/node_modules/lodash/index.js")
	require.True(t, ok)
	require.Equal(t, DefaultSplitGroup, group.Name)

	_, ok = policy.GroupFor("/app/src/index.tsx")
	require.False(t, ok)
}

func TestOptimizationPolicy_GroupForTieBreak(t *testing.T) {
	policy := OptimizationPolicy{SplitGroups: []SplitGroup{
		{Name: "G1", TestPattern: `\.js$`, Priority: 1},
		{Name: "G2", TestPattern: `\.js$`, Priority: 1},
	}}

	group, ok := policy.GroupFor("module.js")
	require.True(t, ok)
	require.Equal(t, "G1", group.Name)
}

func TestOptimizationPolicy_Matcher(t *testing.T) {
	policy, err := ResolveOptimization(Production, "/node_modules/",
		SplitGroup{Name: "react", TestPattern: "/node_modules/react/", Priority: 10},
	)
	require.NoError(t, err)

	matcher, err := policy.Matcher()
	require.NoError(t, err)

	paths := []string{
		"/app/node_modules/react/index.js",
		"/app/node_modules/lodash/index.js",
		"/app/src/index.tsx",
	}
	for _, p := range paths {
		want, wantOK := policy.GroupFor(p)
		got, gotOK := matcher.GroupFor(p)
		require.Equal(t, wantOK, gotOK, p)
		require.Equal(t, want, got, p)
	}

	// the matcher keeps its own copy of the groups
	policy.SplitGroups[1].Name = "changed"
	group, ok := matcher.GroupFor("/app/node_modules/react/index.js")
	require.True(t, ok)
	require.Equal(t, "react", group.Name)
}

func TestOptimizationPolicy_MatcherInvalidPattern(t *testing.T) {
	policy := OptimizationPolicy{SplitGroups: []SplitGroup{{Name: "broken", TestPattern: "("}}}

	_, err := policy.Matcher()
	require.ErrorIs(t, err, ErrInvalidMatcher)

	_, ok := policy.GroupFor("anything")
	require.False(t, ok)
}

func TestResolveOptimization_Errors(t *testing.T) {
	_, err := ResolveOptimization(Production, "(")
	require.ErrorIs(t, err, ErrInvalidMatcher)

	_, err = ResolveOptimization(Production, "/node_modules/", SplitGroup{Name: DefaultSplitGroup, TestPattern: "x"})
	require.ErrorIs(t, err, ErrInvalidDeclaration)
}

func TestResolveOptimization_ExtraGroupDefaultsScope(t *testing.T) {
	policy, err := ResolveOptimization(Development, "/node_modules/", SplitGroup{Name: "shared", TestPattern: "/shared/"})
	require.NoError(t, err)
	require.Equal(t, ChunkScopeAll, policy.SplitGroups[1].ChunkScope)
}
