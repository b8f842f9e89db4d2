package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/assetconf/internal/pipeline"
)

func testDeclarations(root string) pipeline.StaticDeclarations {
	return pipeline.StaticDeclarations{
		EntryPoints: []pipeline.EntryPoint{{Name: "index", Path: filepath.Join(root, "src", "index.tsx")}},
		OutputRoot:  "dist",
		PublicPath:  "/",
		Naming:      pipeline.NamingTemplate{Pattern: "[name].bundle-[hash].js", HashLength: 6},
		Rules: []pipeline.AssetRule{
			{Matcher: `/\.tsx?$/`, Transforms: []pipeline.TransformStep{{Name: "typescript"}}},
			{Matcher: `/\.css$/`, Transforms: []pipeline.TransformStep{{Name: "style"}, {Name: "css"}}},
			{Matcher: `/\.svg$/`, Transforms: []pipeline.TransformStep{{Name: "text"}}},
		},
		Baseline: []pipeline.PluginStep{
			{Name: "html", Options: map[string]any{"title": "Test"}},
			{Name: "define", Options: map[string]any{"APP_NAME": "assetconf"}},
		},
		Conditional: map[pipeline.Mode][]pipeline.PluginStep{
			pipeline.Production: {{Name: "compress", AppliesInModes: []pipeline.Mode{pipeline.Production}}},
		},
		VendorTest: `[\\/]node_modules[\\/]`,
		Extensions: []string{".ts", ".tsx", ".js"},
	}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	}
}

func newTestPipeline(t *testing.T, root string, mode pipeline.Mode) *Pipeline {
	t.Helper()
	resolved, err := pipeline.Resolve(mode, testDeclarations(root))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.WorkDir = root
	p, err := New(cfg, resolved)
	require.NoError(t, err)
	return p
}
