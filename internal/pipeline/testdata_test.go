package pipeline

func testDeclarations() StaticDeclarations {
	return StaticDeclarations{
		EntryPoints: []EntryPoint{{Name: "index", Path: "./src/index.tsx"}},
		OutputRoot:  "dist",
		PublicPath:  "/",
		Naming:      NamingTemplate{Pattern: "[name].bundle-[hash].js", HashLength: 6},
		Rules: []AssetRule{
			{Matcher: `/\.tsx?$/`, Transforms: []TransformStep{{Name: "typescript"}}, Exclude: "/node_modules/"},
			{Matcher: `/\.(scss|css)$/`, Transforms: []TransformStep{
				{Name: "style"},
				{Name: "css", Options: map[string]any{"sourceMap": true}},
				{Name: "sass", Options: map[string]any{"sourceMap": true}},
			}},
			{Matcher: `/\.(svg|jpe?g|png)$/`, Transforms: []TransformStep{{Name: "file", Options: map[string]any{"name": "static/media/[name].[ext]"}}}},
		},
		Baseline: []PluginStep{
			{Name: "html", Options: map[string]any{"template": "./src/index.html", "filename": "index.html"}},
			{Name: "define"},
		},
		Conditional: map[Mode][]PluginStep{
			Production: {{Name: "compress", AppliesInModes: []Mode{Production}, Options: map[string]any{"algorithm": "gzip"}}},
		},
		VendorTest: "/node_modules/",
		Aliases:    map[string]string{"components": "/app/src/components"},
		Extensions: []string{".ts", ".tsx", ".js"},
	}
}
