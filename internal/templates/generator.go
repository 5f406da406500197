package templates

import (
	"maps"

	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
)

// IDGenerator produces block instance ids.
type IDGenerator func() string

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithIDGenerator overrides the instance id source.
func WithIDGenerator(fn IDGenerator) GeneratorOption {
	return func(g *Generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// Generator seeds page layouts from template defaults.
type Generator struct {
	catalog *Catalog
	newID   IDGenerator
}

// NewGenerator builds a generator over catalog; nil selects DefaultCatalog.
func NewGenerator(catalog *Catalog, opts ...GeneratorOption) *Generator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	g := &Generator{
		catalog: catalog,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds one layout per selected page. Unknown templates and pages
// fall back to the template home and then the built-in default. Every
// instance gets a fresh id and its own copy of the configured properties.
func (g *Generator) Generate(templateID string, selectedPages []string) layouts.PageLayouts {
	out := make(layouts.PageLayouts, len(selectedPages))
	for _, page := range selectedPages {
		configs := g.catalog.pageConfig(templateID, page)
		blocks := make([]layouts.BlockInstance, len(configs))
		for i, config := range configs {
			properties := make(map[string]any, len(config.Properties))
			maps.Copy(properties, config.Properties)
			blocks[i] = layouts.BlockInstance{
				InstanceID: g.newID(),
				BlockType:  config.BlockType,
				Order:      i,
				Properties: properties,
			}
		}
		out[page] = layouts.PageLayout{Blocks: blocks}
	}
	return out
}
