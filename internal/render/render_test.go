package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
	"github.com/tourtosky/affiliate-site-generator/internal/render"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleProject() *interfaces.ProjectSnapshot {
	return &interfaces.ProjectSnapshot{
		ID:               uuid.MustParse("5d7f4a43-9a0f-4f31-8f0c-2a4d6a3f7b10"),
		Name:             "Acme Outdoors",
		BrandName:        "Acme Outdoors",
		BrandDescription: "Gear for every trail.",
		Template:         "landing",
		SelectedPages:    []string{"home"},
		Marketplace:      "amazon.com",
		TrackingID:       "acme-20",
		Products: []interfaces.ProductSnapshot{
			{ASIN: "B0002", Title: "Trail Tent", SortOrder: 1},
			{ASIN: "B0001", Title: "Hiking Boots", CustomTitle: "Summit Boots", SortOrder: 0},
			{ASIN: "B0003", Title: "Camp Stove", SortOrder: 2},
			{ASIN: "B0004", Title: "Water Filter", SortOrder: 3},
		},
		CTAs: []interfaces.CTASnapshot{
			{Name: "hero", Label: "Shop the Sale", Placement: "hero", CustomURL: "https://example.com/sale", Active: true},
			{Name: "card", Label: "Check Price", Placement: "product-card", Active: true},
		},
	}
}

func buildContext(t *testing.T, generated *interfaces.GeneratedContent) render.Context {
	t.Helper()
	builder := render.NewBuilder(nil, render.WithClock(func() time.Time { return fixedNow }))
	return builder.Build(sampleProject(), generated, render.Assets{})
}

func instance(id string, blockType blocks.BlockType, props map[string]any) layouts.BlockInstance {
	return layouts.BlockInstance{InstanceID: id, BlockType: string(blockType), Properties: props}
}

func TestRendererEmptyPropertiesMatchRegistryDefaults(t *testing.T) {
	registry := blocks.DefaultRegistry()
	renderer := render.NewRenderer(registry)
	ctx := buildContext(t, nil)

	for _, definition := range registry.List() {
		t.Run(string(definition.ID), func(t *testing.T) {
			empty := renderer.Render([]layouts.BlockInstance{instance("a", definition.ID, map[string]any{})}, ctx)
			explicit := renderer.Render([]layouts.BlockInstance{instance("a", definition.ID, registry.Defaults(definition.ID))}, ctx)
			if empty != explicit {
				t.Fatalf("empty properties diverge from defaults\nempty:    %s\nexplicit: %s", empty, explicit)
			}
		})
	}
}

func TestRendererSkipsUnknownBlockTypes(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	withUnknown := []layouts.BlockInstance{
		instance("a", blocks.NavSimple, nil),
		{InstanceID: "b", BlockType: "carousel-3d", Properties: map[string]any{"title": "ignored"}},
		instance("c", blocks.FooterStandard, nil),
	}
	without := []layouts.BlockInstance{withUnknown[0], withUnknown[2]}

	if got, want := renderer.Render(withUnknown, ctx), renderer.Render(without, ctx); got != want {
		t.Fatalf("unknown block changed output")
	}
	if renderer.Handles("carousel-3d") {
		t.Fatalf("expected carousel-3d to be unhandled")
	}
}

func TestRendererDropsBlankSections(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	noops := []layouts.BlockInstance{
		instance("a", blocks.ContentTrust, nil),
		instance("b", blocks.ContentFAQ, nil),
		instance("c", blocks.ContentText, map[string]any{"heading": "Hello"}),
	}
	if got := renderer.Render(noops, ctx); got != "" {
		t.Fatalf("expected no output from no-op sections, got %q", got)
	}

	withNoop := []layouts.BlockInstance{instance("a", blocks.HeroStandard, nil), noops[0], instance("d", blocks.FooterStandard, nil)}
	without := []layouts.BlockInstance{withNoop[0], withNoop[2]}
	if renderer.Render(withNoop, ctx) != renderer.Render(without, ctx) {
		t.Fatalf("no-op section contributed output")
	}
	if !renderer.Handles(string(blocks.ContentTrust)) {
		t.Fatalf("expected content-trust to be an explicit no-op")
	}
}

func TestRendererRoutesSpotlightThroughProducts(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	spotlight := renderer.Render([]layouts.BlockInstance{instance("a", blocks.ProductsSpotlight, nil)}, ctx)
	grid := renderer.Render([]layouts.BlockInstance{instance("a", blocks.ProductsGrid, nil)}, ctx)
	if spotlight != grid {
		t.Fatalf("spotlight and grid diverge\nspotlight: %s\ngrid: %s", spotlight, grid)
	}
	if strings.Count(grid, `class="product-card"`) != 4 {
		t.Fatalf("expected one card per product, got %s", grid)
	}
	for _, want := range []string{"Summit Boots", "https://www.amazon.com/dp/B0001?tag=acme-20", "Check Price"} {
		if !strings.Contains(grid, want) {
			t.Fatalf("expected %q in products section", want)
		}
	}
}

func TestRendererPrecedence(t *testing.T) {
	renderer := render.NewRenderer(nil)
	generated := &interfaces.GeneratedContent{Hero: interfaces.GeneratedHero{Title: "Generated Headline"}}
	ctx := buildContext(t, generated)

	fromAI := renderer.Render([]layouts.BlockInstance{instance("a", blocks.HeroStandard, nil)}, ctx)
	if !strings.Contains(fromAI, "<h1>Generated Headline</h1>") {
		t.Fatalf("expected generated headline, got %s", fromAI)
	}

	overridden := renderer.Render([]layouts.BlockInstance{instance("a", blocks.HeroStandard, map[string]any{"title": "Editor Headline"})}, ctx)
	if !strings.Contains(overridden, "<h1>Editor Headline</h1>") {
		t.Fatalf("expected instance override to win, got %s", overridden)
	}

	fallback := renderer.Render([]layouts.BlockInstance{instance("a", blocks.HeroStandard, nil)}, buildContext(t, nil))
	if !strings.Contains(fallback, "<h1>Welcome to Our Site</h1>") {
		t.Fatalf("expected registry default headline, got %s", fallback)
	}
}

func TestRendererHeroAndBanner(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	hero := renderer.Render([]layouts.BlockInstance{instance("a", blocks.HeroStandard, nil)}, ctx)
	if strings.Count(hero, `class="btn `) != 2 {
		t.Fatalf("expected two hero buttons, got %s", hero)
	}
	if !strings.Contains(hero, `href="https://example.com/sale"`) || !strings.Contains(hero, `href="#products"`) {
		t.Fatalf("expected main CTA and products anchor, got %s", hero)
	}

	banner := renderer.Render([]layouts.BlockInstance{instance("b", blocks.CTABanner, map[string]any{"text": "Limited stock"})}, ctx)
	if !strings.Contains(banner, "<p>Limited stock</p>") {
		t.Fatalf("expected free-text banner variant, got %s", banner)
	}
}

func TestRendererSanitizesOverrides(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	out := renderer.Render([]layouts.BlockInstance{
		instance("a", blocks.FeaturesGrid, map[string]any{"title": "<script>alert(1)</script>Best Deals"}),
	}, ctx)
	if strings.Contains(out, "<script") {
		t.Fatalf("expected markup to be stripped, got %s", out)
	}
	if !strings.Contains(out, "Best Deals") {
		t.Fatalf("expected text to survive sanitizing, got %s", out)
	}
}

func TestRendererEscapesHeroBackgroundImage(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	out := renderer.Render([]layouts.BlockInstance{
		instance("a", blocks.HeroStandard, map[string]any{"backgroundImage": "https://cdn.example/a.jpg'); color: red; x: url('"}),
	}, ctx)
	if !strings.Contains(out, `url('https://cdn.example/a.jpg%27%29%3B%20color:%20red%3B%20x:%20url%28%27')`) {
		t.Fatalf("expected quotes and parens encoded in background url, got %s", out)
	}

	out = renderer.Render([]layouts.BlockInstance{
		instance("b", blocks.HeroStandard, map[string]any{"backgroundImage": "javascript:alert(1)"}),
	}, ctx)
	if strings.Contains(out, "background-image") || strings.Contains(out, "javascript") {
		t.Fatalf("expected javascript background to be dropped, got %s", out)
	}
}

func TestBuilderRejectsUnsafeCTAURL(t *testing.T) {
	project := sampleProject()
	project.CTAs[0].CustomURL = " JavaScript:alert(document.cookie)"
	builder := render.NewBuilder(nil)
	ctx := builder.Build(project, nil, render.Assets{})
	if ctx.MainCTAURL != ctx.Products[0].AffiliateURL {
		t.Fatalf("expected unsafe CTA to fall back to the first product link, got %q", ctx.MainCTAURL)
	}

	project.CTAs[0].CustomURL = "/deals"
	if got := builder.Build(project, nil, render.Assets{}).MainCTAURL; got != "/deals" {
		t.Fatalf("expected relative CTA url to be kept, got %q", got)
	}
}

func TestRendererStyleHints(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	features := renderer.Render([]layouts.BlockInstance{instance("a", blocks.FeaturesGrid, map[string]any{"columns": 2})}, ctx)
	if !strings.Contains(features, `data-columns="2"`) || strings.Count(features, `class="feature-card"`) != 4 {
		t.Fatalf("columns must only change the layout hint, got %s", features)
	}

	products := renderer.Render([]layouts.BlockInstance{instance("b", blocks.ProductsGrid, map[string]any{"showPrices": false})}, ctx)
	if strings.Contains(products, "product-price") || !strings.Contains(products, "product-rating") {
		t.Fatalf("expected prices hidden and ratings shown, got %s", products)
	}
}

func TestRendererFooterAndComparison(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)

	footer := renderer.Render([]layouts.BlockInstance{instance("a", blocks.FooterStandard, nil)}, ctx)
	if strings.Count(footer, `class="footer-column"`) != 3 || !strings.Contains(footer, `class="footer-brand"`) {
		t.Fatalf("expected brand blurb plus three link columns, got %s", footer)
	}
	if !strings.Contains(footer, "&copy; 2025 Acme Outdoors.") || !strings.Contains(footer, "Acme Outdoors is a participant") {
		t.Fatalf("expected copyright year and disclosure, got %s", footer)
	}

	comparison := renderer.Render([]layouts.BlockInstance{instance("b", blocks.ComparisonTable, nil)}, ctx)
	if strings.Count(comparison, "<th>") != 4 {
		t.Fatalf("expected feature column plus three products, got %s", comparison)
	}
	for _, row := range []string{"Quality Rating", "Prime Eligible", "Free Returns", "Our Pick"} {
		if !strings.Contains(comparison, "<strong>"+row+"</strong>") {
			t.Fatalf("expected comparison row %q", row)
		}
	}
}

func TestRendererIsDeterministic(t *testing.T) {
	renderer := render.NewRenderer(nil)
	ctx := buildContext(t, nil)
	page := []layouts.BlockInstance{
		instance("a", blocks.NavSimple, nil),
		instance("b", blocks.HeroStandard, nil),
		instance("c", blocks.FeaturesGrid, nil),
		instance("d", blocks.ProductsGrid, nil),
		instance("e", blocks.ComparisonTable, nil),
		instance("f", blocks.Testimonials, nil),
		instance("g", blocks.CTABanner, nil),
		instance("h", blocks.FooterStandard, nil),
	}
	first := renderer.Render(page, ctx)
	if second := renderer.Render(page, ctx); first != second {
		t.Fatalf("render output is not stable")
	}
	if strings.Count(first, "<!-- ") != len(page) {
		t.Fatalf("expected one section per block, got %d", strings.Count(first, "<!-- "))
	}
}
