package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tourtosky/affiliate-site-generator/internal/render"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

func TestBuilderResolvesProductsAndCTAs(t *testing.T) {
	ctx := buildContext(t, nil)

	titles := make([]string, len(ctx.Products))
	for i, product := range ctx.Products {
		titles[i] = product.Title
	}
	if diff := cmp.Diff([]string{"Summit Boots", "Trail Tent", "Camp Stove", "Water Filter"}, titles); diff != "" {
		t.Fatalf("unexpected product order (-want +got):\n%s", diff)
	}
	if got := ctx.Products[1].AffiliateURL; got != "https://www.amazon.com/dp/B0002?tag=acme-20" {
		t.Fatalf("unexpected affiliate url %s", got)
	}
	if ctx.Products[0].CTALabel != "Check Price" {
		t.Fatalf("expected product-card CTA label, got %q", ctx.Products[0].CTALabel)
	}
	if ctx.MainCTALabel != "Shop the Sale" || ctx.MainCTAURL != "https://example.com/sale" {
		t.Fatalf("unexpected main CTA %q %q", ctx.MainCTALabel, ctx.MainCTAURL)
	}
	if len(ctx.ComparisonProducts) != 3 || ctx.ComparisonProducts[0].Name != "Summit Boots" {
		t.Fatalf("expected first three products in comparison, got %+v", ctx.ComparisonProducts)
	}
	for _, row := range ctx.ComparisonRows {
		if len(row.Values) != 3 {
			t.Fatalf("row %s has %d values", row.Name, len(row.Values))
		}
	}
	if ctx.Year != 2025 {
		t.Fatalf("expected clock year, got %d", ctx.Year)
	}
}

func TestBuilderDefaults(t *testing.T) {
	builder := render.NewBuilder(nil)
	ctx := builder.Build(&interfaces.ProjectSnapshot{BrandName: "Nimbus"}, nil, render.Assets{})

	if ctx.PrimaryColor != render.DefaultPrimaryColor || ctx.SecondaryColor != render.DefaultSecondaryColor || ctx.AccentColor != render.DefaultAccentColor {
		t.Fatalf("unexpected default palette %+v", ctx.Palette())
	}
	if ctx.PrimaryDark != "#1e4fbc" {
		t.Fatalf("unexpected primary dark %s", ctx.PrimaryDark)
	}
	if len(ctx.Features) != 4 || len(ctx.Testimonials) != 3 {
		t.Fatalf("expected 4 default features and 3 testimonials, got %d/%d", len(ctx.Features), len(ctx.Testimonials))
	}
	if ctx.HasLogo || ctx.HasFavicon {
		t.Fatalf("expected no brand assets")
	}
	if ctx.MainCTAURL != "https://www.amazon.com/" || ctx.MainCTALabel != "Shop Now" {
		t.Fatalf("unexpected fallback CTA %q %q", ctx.MainCTALabel, ctx.MainCTAURL)
	}
	if len(ctx.ComparisonProducts) != 0 {
		t.Fatalf("expected empty comparison without products")
	}
}

func TestBuilderUsesGeneratedContent(t *testing.T) {
	generated := &interfaces.GeneratedContent{
		Products:     []interfaces.GeneratedProduct{{ASIN: "B0002", Title: "Ultralight Tent", Rating: "4.9"}},
		Testimonials: []interfaces.GeneratedTestimonial{{Text: "Love it", Name: "dana"}},
		Meta:         interfaces.GeneratedMeta{Title: "Acme | Outdoor Gear"},
	}
	ctx := buildContext(t, generated)

	if ctx.Products[1].Title != "Ultralight Tent" || ctx.Products[1].Rating != "4.9" {
		t.Fatalf("expected generated product copy, got %+v", ctx.Products[1])
	}
	if ctx.Products[0].Title != "Summit Boots" {
		t.Fatalf("custom title must outrank generated copy, got %q", ctx.Products[0].Title)
	}
	if len(ctx.Testimonials) != 1 || ctx.Testimonials[0].Initial != "D" {
		t.Fatalf("unexpected testimonials %+v", ctx.Testimonials)
	}
	if ctx.MetaTitle != "Acme | Outdoor Gear" {
		t.Fatalf("unexpected meta title %q", ctx.MetaTitle)
	}
}

func TestBuilderAssets(t *testing.T) {
	builder := render.NewBuilder(nil)
	ctx := builder.Build(sampleProject(), nil, render.Assets{LogoURL: "assets/logo.png"})
	if !ctx.HasLogo || ctx.HasFavicon || ctx.LogoURL != "assets/logo.png" {
		t.Fatalf("unexpected asset flags %+v", ctx)
	}
}

func TestDarken(t *testing.T) {
	cases := map[string]string{
		"#ffffff": "#cccccc",
		"#fff":    "#cccccc",
		"#2563eb": "#1e4fbc",
		"#000000": "#000000",
		"teal":    "teal",
	}
	for input, want := range cases {
		if got := render.Darken(input, 0.8); got != want {
			t.Fatalf("Darken(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAffiliateURL(t *testing.T) {
	if got := render.AffiliateURL("https://www.amazon.de/", "B01", ""); got != "https://www.amazon.de/dp/B01" {
		t.Fatalf("unexpected url %s", got)
	}
	if got := render.AffiliateURL("", "B01", "tag-21"); got != "https://www.amazon.com/dp/B01?tag=tag-21" {
		t.Fatalf("unexpected url %s", got)
	}
}
