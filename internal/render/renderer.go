package render

import (
	"strings"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
)

// section renders one block instance into an HTML fragment.
type section func(ctx *Context, props properties) string

// Renderer turns ordered block instances into an HTML body.
type Renderer struct {
	registry *blocks.Registry
	sections map[blocks.BlockType]section
}

// NewRenderer builds the dispatch table once. A nil registry selects the
// built-in catalog.
func NewRenderer(registry *blocks.Registry) *Renderer {
	if registry == nil {
		registry = blocks.DefaultRegistry()
	}
	return &Renderer{
		registry: registry,
		sections: map[blocks.BlockType]section{
			blocks.NavSimple:       renderNav,
			blocks.HeroStandard:    renderHero,
			blocks.FeaturesGrid:    renderFeatures,
			blocks.ProductsGrid:    renderProducts,
			blocks.ComparisonTable: renderComparison,
			blocks.Testimonials:    renderTestimonials,
			blocks.CTABanner:       renderCTABanner,
			blocks.FooterStandard:  renderFooter,

			// legacy types routed through the newer sections
			blocks.ProductsSpotlight: renderProducts,
			blocks.ReviewsSummary:    renderTestimonials,

			// no visual representation in generated sites
			blocks.ContentTrust: renderNothing,
			blocks.ContentFAQ:   renderNothing,
			blocks.ContentText:  renderNothing,
		},
	}
}

// Handles reports whether blockType has a section, including the no-op ones.
func (r *Renderer) Handles(blockType string) bool {
	_, ok := r.sections[blocks.BlockType(blockType)]
	return ok
}

// Render renders instances in slice order; sorting by Order is the caller's
// job. Unknown block types and blank sections contribute nothing.
func (r *Renderer) Render(instances []layouts.BlockInstance, ctx Context) string {
	out := make([]string, 0, len(instances))
	for _, instance := range instances {
		blockType := blocks.BlockType(instance.BlockType)
		render, ok := r.sections[blockType]
		if !ok {
			continue
		}
		html := render(&ctx, properties{
			values:   instance.Properties,
			defaults: r.registry.Defaults(blockType),
		})
		if strings.TrimSpace(html) == "" {
			continue
		}
		out = append(out, html)
	}
	return strings.Join(out, "\n")
}

func renderNothing(*Context, properties) string { return "" }
