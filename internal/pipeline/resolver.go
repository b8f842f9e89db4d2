package pipeline

import (
	"encoding/binary"
	"slices"

	json "github.com/goccy/go-json"
	"github.com/minio/crc64nvme"
	"github.com/mr-tron/base58"
)

// ResolvedConfig is the immutable configuration consumed by the bundling
// engine. Callers must treat it as read only; it shares no memory with the
// declarations it was resolved from.
type ResolvedConfig struct {
	Mode              Mode               `json:"mode"`
	EntryPoints       []EntryPoint       `json:"entryPoints"`
	OutputRoot        string             `json:"outputRoot"`
	PublicPath        string             `json:"publicPath"`
	Naming            NamingTemplate     `json:"naming"`
	Rules             *RuleTable         `json:"rules"`
	Plugins           []PluginStep       `json:"plugins"`
	Optimization      OptimizationPolicy `json:"optimization"`
	ResolveAliases    map[string]string  `json:"resolveAliases"`
	ResolveExtensions []string           `json:"resolveExtensions"`
	SourceMap         bool               `json:"sourceMap"`
	Notes             []Note             `json:"notes,omitempty"`
}

// Fingerprint returns a digest of the resolved configuration. Resolving the
// same declarations for the same mode always yields the same fingerprint.
func (c *ResolvedConfig) Fingerprint() (string, error) {
	// map keys are emitted sorted so the encoding is canonical
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, crc64nvme.Checksum(data))
	return base58.Encode(buf), nil
}

// Resolver turns declarations into a ResolvedConfig.
type Resolver struct {
	catalog TransformCatalog
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCatalog replaces the transform catalog used to validate rules.
func WithCatalog(catalog TransformCatalog) Option {
	return func(r *Resolver) {
		r.catalog = catalog
	}
}

// NewResolver creates a resolver using DefaultCatalog unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{catalog: DefaultCatalog()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the transform catalog the resolver validates against.
func (r *Resolver) Catalog() TransformCatalog {
	return r.catalog
}

// Resolve resolves decls for mode with the default catalog.
func Resolve(mode Mode, decls StaticDeclarations) (*ResolvedConfig, error) {
	return NewResolver().Resolve(mode, decls)
}

// Resolve builds the rule table, composes plugins, then resolves naming and
// optimization in a single pass. Any failure is returned without a partial result.
func (r *Resolver) Resolve(mode Mode, decls StaticDeclarations) (*ResolvedConfig, error) {
	if err := decls.validate(); err != nil {
		return nil, err
	}

	rules, err := BuildRuleTable(decls.Rules, r.catalog)
	if err != nil {
		return nil, err
	}

	plugins, err := ComposePlugins(decls.Baseline, decls.Conditional, mode)
	if err != nil {
		return nil, err
	}

	naming, notes, err := ResolveNaming(mode, decls.Naming)
	if err != nil {
		return nil, err
	}

	optimization, err := ResolveOptimization(mode, decls.VendorTest, decls.SplitGroups...)
	if err != nil {
		return nil, err
	}

	return &ResolvedConfig{
		Mode:              mode,
		EntryPoints:       slices.Clone(decls.EntryPoints),
		OutputRoot:        decls.OutputRoot,
		PublicPath:        decls.PublicPath,
		Naming:            naming,
		Rules:             rules,
		Plugins:           plugins,
		Optimization:      optimization.clone(),
		ResolveAliases:    cloneAliases(decls.Aliases),
		ResolveExtensions: cloneExtensions(decls.Extensions),
		SourceMap:         mode == Development,
		Notes:             notes,
	}, nil
}
