package render

import (
	_ "embed"
	"strconv"

	"github.com/tourtosky/affiliate-site-generator/internal/tmpl"
)

var (
	//go:embed templates/document.html
	documentTemplate string

	//go:embed templates/fallback.html
	fallbackTemplate string
)

// Document wraps a rendered body into a complete HTML page linking the
// stylesheet at stylesheetHref.
func Document(ctx Context, body, stylesheetHref string) string {
	return tmpl.Render(documentTemplate, map[string]any{
		"title":       text(ctx.MetaTitle),
		"description": text(ctx.MetaDescription),
		"hasFavicon":  ctx.HasFavicon,
		"faviconUrl":  attr(ctx.FaviconURL),
		"stylesheet":  attr(stylesheetHref),
		"body":        body,
	})
}

// Fallback renders the whole-page template used when a project has no saved
// block layout.
func Fallback(ctx Context, stylesheetHref string) string {
	return tmpl.Render(fallbackTemplate, TemplateData(ctx, stylesheetHref))
}

// TemplateData flattens ctx into the data bag of the static template engine.
// Text is sanitized and attribute values are escaped.
func TemplateData(ctx Context, stylesheetHref string) map[string]any {
	features := make([]any, len(ctx.Features))
	for i, feature := range ctx.Features {
		features[i] = map[string]any{
			"icon":        text(feature.Icon),
			"title":       text(feature.Title),
			"description": text(feature.Description),
		}
	}
	products := make([]any, len(ctx.Products))
	for i, product := range ctx.Products {
		products[i] = map[string]any{
			"title":        text(product.Title),
			"titleAttr":    attr(product.Title),
			"description":  text(product.Description),
			"imageUrl":     attr(product.ImageURL),
			"affiliateUrl": attr(product.AffiliateURL),
			"rating":       text(product.Rating),
			"price":        text(product.Price),
			"ctaLabel":     text(product.CTALabel),
		}
	}
	testimonials := make([]any, len(ctx.Testimonials))
	for i, item := range ctx.Testimonials {
		testimonials[i] = map[string]any{
			"text":    text(item.Text),
			"name":    text(item.Name),
			"title":   text(item.Title),
			"initial": text(item.Initial),
		}
	}

	return map[string]any{
		"brandName":             text(ctx.BrandName),
		"brandNameAttr":         attr(ctx.BrandName),
		"brandDescription":      text(ctx.BrandDescription),
		"metaTitle":             text(ctx.MetaTitle),
		"metaDescription":       text(ctx.MetaDescription),
		"tagline":               text(ctx.Tagline),
		"year":                  strconv.Itoa(ctx.Year),
		"affiliateDisclosure":   text(ctx.AffiliateDisclosure),
		"hasLogo":               ctx.HasLogo,
		"logoUrl":               attr(ctx.LogoURL),
		"hasFavicon":            ctx.HasFavicon,
		"faviconUrl":            attr(ctx.FaviconURL),
		"stylesheet":            attr(stylesheetHref),
		"heroBadge":             text(ctx.HeroBadge),
		"heroTitle":             text(ctx.HeroTitle),
		"heroDescription":       text(ctx.HeroDescription),
		"mainCtaLabel":          text(ctx.MainCTALabel),
		"mainCtaUrl":            attr(ctx.MainCTAURL),
		"featuresTitle":         text(ctx.FeaturesTitle),
		"featuresSubtitle":      text(ctx.FeaturesSubtitle),
		"features":              features,
		"productsTitle":         text(ctx.ProductsTitle),
		"productsSubtitle":      text(ctx.ProductsSubtitle),
		"products":              products,
		"testimonialsTitle":     text(ctx.TestimonialsTitle),
		"testimonialsSubtitle":  text(ctx.TestimonialsSubtitle),
		"testimonials":          testimonials,
		"ctaSectionTitle":       text(ctx.CTASectionTitle),
		"ctaSectionDescription": text(ctx.CTASectionDescription),
	}
}
