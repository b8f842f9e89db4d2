package assets

import "github.com/wolfeidau/assetconf/internal/pipeline"

type Config struct {
	// Working directory esbuild resolves relative paths against, defaults to the process cwd
	WorkDir string
	// Metafile name written inside the output root
	MetafileName string
	// Transform catalog used to map rule chains to loaders
	Catalog pipeline.TransformCatalog
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		MetafileName: "meta.json",
		Catalog:      pipeline.DefaultCatalog(),
	}
}
