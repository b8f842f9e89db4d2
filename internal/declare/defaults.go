package declare

import (
	"path/filepath"

	"github.com/wolfeidau/assetconf/internal/pipeline"
)

// VendorTest matches modules installed under node_modules on any platform.
const VendorTest = `[\\/]node_modules[\\/]`

// Default returns the declarations for a React and TypeScript single page
// application rooted at root, with sources under src/ and output in dist/.
func Default(root string) pipeline.StaticDeclarations {
	src := filepath.Join(root, "src")

	return pipeline.StaticDeclarations{
		EntryPoints: []pipeline.EntryPoint{{Name: "index", Path: filepath.Join(src, "index.tsx")}},
		OutputRoot:  filepath.Join(root, "dist"),
		PublicPath:  "/",
		Naming: pipeline.NamingTemplate{
			Pattern:      "[name].bundle-[hash].js",
			ChunkPattern: "[name].bundle-[hash].js",
			HashLength:   6,
		},
		Rules: []pipeline.AssetRule{
			{Matcher: `/\.tsx?$/`, Transforms: []pipeline.TransformStep{{Name: "typescript"}}},
			{Matcher: `/\.js$/`, Transforms: []pipeline.TransformStep{{Name: "source-map"}}},
			{Matcher: `/\.(scss|css)$/`, Transforms: []pipeline.TransformStep{
				{Name: "style"},
				{Name: "css", Options: map[string]any{"sourceMap": true}},
				{Name: "sass", Options: map[string]any{"sourceMap": true}},
			}},
			{Matcher: `/\.(eot|otf|ttf|woff|woff2)$/`, Transforms: []pipeline.TransformStep{
				{Name: "file", Options: map[string]any{"name": "[name].[ext]"}},
			}},
			{Matcher: `/\.(svg|jpe?g|png)$/`, Transforms: []pipeline.TransformStep{
				{Name: "file", Options: map[string]any{"name": "static/media/[name].[ext]"}},
			}},
			{Matcher: `/\.(gif)$/i`, Transforms: []pipeline.TransformStep{
				{Name: "file"},
				{Name: "image", Options: map[string]any{"disable": true}},
			}},
		},
		Baseline: []pipeline.PluginStep{
			{Name: "html", Options: map[string]any{
				"template": filepath.Join(src, "index.html"),
				"filename": "index.html",
			}},
			{Name: "define"},
		},
		Conditional: map[pipeline.Mode][]pipeline.PluginStep{
			pipeline.Production: {
				{Name: "compress", AppliesInModes: []pipeline.Mode{pipeline.Production}, Options: map[string]any{
					"test":      `/\.(js|css|svg|jpeg|png)$/`,
					"filename":  "[path].gz[query]",
					"algorithm": "gzip",
				}},
			},
		},
		VendorTest: VendorTest,
		Aliases: map[string]string{
			"components": filepath.Join(src, "components"),
			"utils":      filepath.Join(src, "utils"),
			"constants":  filepath.Join(src, "constants"),
			"containers": filepath.Join(src, "containers"),
			"routing":    filepath.Join(src, "routing"),
		},
		Extensions: []string{".ts", ".tsx", ".js", ".jsx", ".json"},
	}
}
