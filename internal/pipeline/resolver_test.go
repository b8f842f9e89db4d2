package pipeline

import (
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Idempotent(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			decls := testDeclarations()

			first, err := Resolve(mode, decls)
			require.NoError(t, err)
			second, err := Resolve(mode, decls)
			require.NoError(t, err)

			require.Equal(t, first, second)

			fp1, err := first.Fingerprint()
			require.NoError(t, err)
			fp2, err := second.Fingerprint()
			require.NoError(t, err)
			require.Equal(t, fp1, fp2)
			require.NotEmpty(t, fp1)
		})
	}
}

func TestResolve_ModesDiffer(t *testing.T) {
	decls := testDeclarations()

	dev, err := Resolve(Development, decls)
	require.NoError(t, err)
	prod, err := Resolve(Production, decls)
	require.NoError(t, err)

	devFP, err := dev.Fingerprint()
	require.NoError(t, err)
	prodFP, err := prod.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, devFP, prodFP)

	assert.True(t, dev.SourceMap)
	assert.False(t, prod.SourceMap)
	assert.Equal(t, "[name].bundle.js", dev.Naming.Pattern)
	assert.Equal(t, 0, dev.Naming.HashLength)
	assert.NotEmpty(t, dev.Notes)
	assert.Equal(t, []string{"html", "define"}, pluginNames(dev.Plugins))
	assert.Equal(t, []string{"html", "define", "compress"}, pluginNames(prod.Plugins))
}

func TestResolve_ProductionEndToEnd(t *testing.T) {
	cfg, err := Resolve(Production, testDeclarations())
	require.NoError(t, err)

	require.True(t, cfg.Optimization.MinimizeEnabled)
	require.Equal(t, "/node_modules/", cfg.Optimization.SplitGroups[0].TestPattern)
	require.Equal(t, Production, cfg.Mode)
	require.Equal(t, "dist", cfg.OutputRoot)
	require.Equal(t, 3, cfg.Rules.Len())

	rule, ok := cfg.Rules.Lookup("src/app.tsx")
	require.True(t, ok)
	require.Equal(t, "typescript", rule.Transforms[0].Name)
}

func TestResolve_DuplicateDetectedBeforeLookup(t *testing.T) {
	decls := testDeclarations()
	decls.Rules = append(decls.Rules,
		AssetRule{Matcher: `/\.svg$/`, Transforms: []TransformStep{{Name: "file"}}},
		AssetRule{Matcher: `/\.svg$/`, Transforms: []TransformStep{{Name: "url"}}},
	)

	cfg, err := Resolve(Production, decls)
	require.Nil(t, cfg)
	require.ErrorIs(t, err, ErrDuplicateTransformTarget)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, `/\.svg$/`, cfgErr.Declaration)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		mutate func(*StaticDeclarations)
		err    error
	}{
		{
			name:   "no entry points",
			mode:   Production,
			mutate: func(d *StaticDeclarations) { d.EntryPoints = nil },
			err:    ErrInvalidDeclaration,
		},
		{
			name: "duplicate entry point",
			mode: Production,
			mutate: func(d *StaticDeclarations) {
				d.EntryPoints = append(d.EntryPoints, EntryPoint{Name: "index", Path: "./src/other.tsx"})
			},
			err: ErrInvalidDeclaration,
		},
		{
			name:   "no output root",
			mode:   Development,
			mutate: func(d *StaticDeclarations) { d.OutputRoot = "" },
			err:    ErrInvalidDeclaration,
		},
		{
			name:   "no vendor test",
			mode:   Development,
			mutate: func(d *StaticDeclarations) { d.VendorTest = "" },
			err:    ErrInvalidDeclaration,
		},
		{
			name:   "missing cache bust",
			mode:   Production,
			mutate: func(d *StaticDeclarations) { d.Naming.HashLength = 0 },
			err:    ErrMissingCacheBust,
		},
		{
			name: "duplicate plugin",
			mode: Development,
			mutate: func(d *StaticDeclarations) {
				d.Conditional[Development] = []PluginStep{{Name: "define"}}
			},
			err: ErrDuplicatePlugin,
		},
		{
			name: "unknown transform option",
			mode: Development,
			mutate: func(d *StaticDeclarations) {
				d.Rules[0].Transforms[0].Options = map[string]any{"happyPackMode": true}
			},
			err: ErrUnknownTransformOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := testDeclarations()
			tt.mutate(&decls)

			cfg, err := Resolve(tt.mode, decls)
			require.Nil(t, cfg)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestResolve_DoesNotAliasDeclarations(t *testing.T) {
	decls := testDeclarations()

	cfg, err := Resolve(Production, decls)
	require.NoError(t, err)

	cfg.ResolveAliases["components"] = "/elsewhere"
	cfg.ResolveExtensions[0] = ".mjs"
	cfg.EntryPoints[0].Path = "./other.tsx"

	require.Equal(t, "/app/src/components", decls.Aliases["components"])
	require.Equal(t, ".ts", decls.Extensions[0])
	require.Equal(t, "./src/index.tsx", decls.EntryPoints[0].Path)
}

func TestResolve_Concurrent(t *testing.T) {
	decls := testDeclarations()
	expected := map[Mode]string{}
	for _, mode := range Modes() {
		cfg, err := Resolve(mode, decls)
		require.NoError(t, err)
		fp, err := cfg.Fingerprint()
		require.NoError(t, err)
		expected[mode] = fp
	}

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := Resolve(Modes()[i%2], decls)
			if err != nil {
				return
			}
			results[i], _ = cfg.Fingerprint()
		}(i)
	}
	wg.Wait()

	for i, fp := range results {
		require.Equal(t, expected[Modes()[i%2]], fp)
	}
}

func TestResolvedConfig_JSON(t *testing.T) {
	cfg, err := NewResolver(WithCatalog(DefaultCatalog())).Resolve(Production, testDeclarations())
	require.NoError(t, err)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "production", decoded["mode"])

	rules, ok := decoded["rules"].([]any)
	require.True(t, ok)
	require.Len(t, rules, 3)
}
