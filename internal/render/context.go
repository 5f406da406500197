package render

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	"github.com/tourtosky/affiliate-site-generator/internal/tmpl"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

const (
	DefaultPrimaryColor   = "#2563eb"
	DefaultSecondaryColor = "#1e40af"
	DefaultAccentColor    = "#f59e0b"
	DefaultMarketplace    = "amazon.com"

	comparisonSize = 3
)

// CTA placements consulted while building the context.
const (
	PlacementHero        = "hero"
	PlacementProductCard = "product-card"
)

// Context is the fully resolved value bag a render consults. It is rebuilt
// for every render and carries no identity.
type Context struct {
	BrandName        string
	BrandDescription string

	PrimaryColor   string
	PrimaryDark    string
	SecondaryColor string
	AccentColor    string

	LogoURL    string
	FaviconURL string
	HasLogo    bool
	HasFavicon bool

	MetaTitle           string
	MetaDescription     string
	Tagline             string
	Year                int
	AffiliateDisclosure string

	HeroBadge       string
	HeroTitle       string
	HeroDescription string
	HeroImage       string

	MainCTALabel string
	MainCTAURL   string

	FeaturesTitle    string
	FeaturesSubtitle string
	Features         []Feature

	ProductsTitle    string
	ProductsSubtitle string
	Products         []Product

	ComparisonTitle    string
	ComparisonSubtitle string
	ComparisonProducts []ComparisonProduct
	ComparisonRows     []ComparisonRow

	TestimonialsTitle    string
	TestimonialsSubtitle string
	Testimonials         []Testimonial

	CTASectionTitle       string
	CTASectionDescription string
}

// Palette returns the colours used for stylesheet substitution.
func (c Context) Palette() tmpl.Palette {
	return tmpl.Palette{
		Primary:     c.PrimaryColor,
		PrimaryDark: c.PrimaryDark,
		Secondary:   c.SecondaryColor,
		Accent:      c.AccentColor,
	}
}

type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Product is a catalog product with every display field already resolved.
type Product struct {
	ASIN         string
	Title        string
	Description  string
	ImageURL     string
	AffiliateURL string
	Rating       string
	Price        string
	CTALabel     string
}

type ComparisonProduct struct {
	Name string
}

type ComparisonRow struct {
	Name   string
	Values []string
}

type Testimonial struct {
	Text    string
	Name    string
	Title   string
	Initial string
}

// Assets carries the public URLs of uploaded brand assets, when present.
type Assets struct {
	LogoURL    string
	FaviconURL string
}

// Builder assembles render contexts from project snapshots.
type Builder struct {
	registry *blocks.Registry
	themes   *Themes
	now      func() time.Time
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the clock used for the copyright year.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithThemes resolves default colours from the project's template theme.
func WithThemes(themes *Themes) BuilderOption {
	return func(b *Builder) {
		b.themes = themes
	}
}

// NewBuilder returns a Builder reading fallback copy from registry. A nil
// registry selects the built-in catalog.
func NewBuilder(registry *blocks.Registry, opts ...BuilderOption) *Builder {
	if registry == nil {
		registry = blocks.DefaultRegistry()
	}
	b := &Builder{registry: registry, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves the context for project. generated may be nil when no
// content provider produced copy.
func (b *Builder) Build(project *interfaces.ProjectSnapshot, generated *interfaces.GeneratedContent, assets Assets) Context {
	if project == nil {
		project = &interfaces.ProjectSnapshot{}
	}
	if generated == nil {
		generated = &interfaces.GeneratedContent{}
	}

	brand := coalesce(project.BrandName, project.Name, "Our Store")
	palette := b.palette(project)

	ctx := Context{
		BrandName:        brand,
		BrandDescription: coalesce(project.BrandDescription, generated.Meta.Tagline, fmt.Sprintf("Hand-picked products recommended by %s.", brand)),

		PrimaryColor:   palette.Primary,
		PrimaryDark:    Darken(palette.Primary, darkenFactor),
		SecondaryColor: palette.Secondary,
		AccentColor:    palette.Accent,

		LogoURL:    assets.LogoURL,
		FaviconURL: assets.FaviconURL,
		HasLogo:    strings.TrimSpace(assets.LogoURL) != "",
		HasFavicon: strings.TrimSpace(assets.FaviconURL) != "",

		MetaTitle:           coalesce(generated.Meta.Title, brand),
		MetaDescription:     coalesce(generated.Meta.Description, project.BrandDescription, fmt.Sprintf("Discover the best products picked by %s.", brand)),
		Tagline:             coalesce(generated.Meta.Tagline, project.BrandDescription),
		Year:                b.now().Year(),
		AffiliateDisclosure: disclosure(brand),

		HeroBadge:       coalesce(generated.Hero.Badge, "Top Rated Picks"),
		HeroTitle:       coalesce(generated.Hero.Title, b.fallback(blocks.HeroStandard, "title"), brand),
		HeroDescription: coalesce(generated.Hero.Description, project.BrandDescription, fmt.Sprintf("Explore the products %s customers love most.", brand)),

		FeaturesTitle:    coalesce(generated.FeaturesSection.Title, b.fallback(blocks.FeaturesGrid, "title"), "Why Choose Us?"),
		FeaturesSubtitle: coalesce(generated.FeaturesSection.Subtitle, b.fallback(blocks.FeaturesGrid, "subtitle")),
		Features:         features(generated.Features),

		ProductsTitle:    coalesce(generated.ProductsSection.Title, "Our Top Products"),
		ProductsSubtitle: coalesce(generated.ProductsSection.Subtitle, "Carefully selected for quality and value."),

		ComparisonTitle:    coalesce(generated.ComparisonSection.Title, b.fallback(blocks.ComparisonTable, "title"), "Compare Products"),
		ComparisonSubtitle: coalesce(generated.ComparisonSection.Subtitle, b.fallback(blocks.ComparisonTable, "subtitle")),

		TestimonialsTitle:    coalesce(generated.TestimonialsSection.Title, b.fallback(blocks.Testimonials, "title"), "What Our Customers Say"),
		TestimonialsSubtitle: coalesce(generated.TestimonialsSection.Subtitle, b.fallback(blocks.Testimonials, "subtitle")),
		Testimonials:         testimonials(generated.Testimonials),

		CTASectionTitle:       coalesce(generated.CTA.SectionTitle, "Ready to Find Your Perfect Product?"),
		CTASectionDescription: coalesce(generated.CTA.SectionDescription, fmt.Sprintf("Browse the full %s collection today.", brand)),
	}

	marketplace := normalizeMarketplace(project.Marketplace)
	cardLabel := coalesce(ctaLabel(project.CTAs, PlacementProductCard), "View on Amazon")
	ctx.Products = products(project, generated, marketplace, cardLabel)
	ctx.ComparisonProducts, ctx.ComparisonRows = comparison(ctx.Products)

	hero := findCTA(project.CTAs, PlacementHero)
	ctx.MainCTALabel = coalesce(labelOf(hero), generated.CTA.ButtonLabel, "Shop Now")
	ctx.MainCTAURL = mainCTAURL(hero, ctx.Products, marketplace, project.TrackingID)
	if len(ctx.Products) > 0 {
		ctx.HeroImage = ctx.Products[0].ImageURL
	}
	return ctx
}

func (b *Builder) fallback(blockType blocks.BlockType, key string) string {
	return stringValue(b.registry.Defaults(blockType)[key])
}

func (b *Builder) palette(project *interfaces.ProjectSnapshot) tmpl.Palette {
	defaults := tmpl.Palette{
		Primary:   DefaultPrimaryColor,
		Secondary: DefaultSecondaryColor,
		Accent:    DefaultAccentColor,
	}
	if b.themes != nil {
		defaults = b.themes.Palette(project.Template)
	}
	return tmpl.Palette{
		Primary:   coalesce(project.Colors.Primary, defaults.Primary, DefaultPrimaryColor),
		Secondary: coalesce(project.Colors.Secondary, defaults.Secondary, DefaultSecondaryColor),
		Accent:    coalesce(project.Colors.Accent, defaults.Accent, DefaultAccentColor),
	}
}

func disclosure(brand string) string {
	return fmt.Sprintf("%s is a participant in the Amazon Services LLC Associates Program, an affiliate advertising program designed to provide a means for sites to earn advertising fees by advertising and linking to Amazon. We may earn a commission on qualifying purchases at no extra cost to you.", brand)
}

var defaultFeatures = []Feature{
	{Icon: "✓", Title: "Premium Quality", Description: "Every product is selected for build quality and lasting value."},
	{Icon: "🚚", Title: "Fast Shipping", Description: "Most items ship quickly through trusted retail partners."},
	{Icon: "↺", Title: "Easy Returns", Description: "Shop with confidence thanks to hassle-free return policies."},
	{Icon: "★", Title: "Honest Reviews", Description: "Recommendations based on real customer feedback."},
}

var defaultTestimonials = []Testimonial{
	{Text: "Exactly what I was looking for. The recommendations saved me hours of research.", Name: "Sarah M.", Title: "Verified Buyer", Initial: "S"},
	{Text: "Great selection and clear comparisons. I ordered with confidence.", Name: "James K.", Title: "Verified Buyer", Initial: "J"},
	{Text: "The product I picked from this list has been fantastic so far.", Name: "Emily R.", Title: "Verified Buyer", Initial: "E"},
}

func features(generated []interfaces.GeneratedFeature) []Feature {
	if len(generated) == 0 {
		return slices.Clone(defaultFeatures)
	}
	out := make([]Feature, 0, len(generated))
	for i, feature := range generated {
		fallback := defaultFeatures[i%len(defaultFeatures)]
		out = append(out, Feature{
			Icon:        coalesce(feature.Icon, fallback.Icon),
			Title:       coalesce(feature.Title, fallback.Title),
			Description: coalesce(feature.Description, fallback.Description),
		})
	}
	return out
}

func testimonials(generated []interfaces.GeneratedTestimonial) []Testimonial {
	if len(generated) == 0 {
		return slices.Clone(defaultTestimonials)
	}
	out := make([]Testimonial, 0, len(generated))
	for i, item := range generated {
		fallback := defaultTestimonials[i%len(defaultTestimonials)]
		name := coalesce(item.Name, fallback.Name)
		out = append(out, Testimonial{
			Text:    coalesce(item.Text, fallback.Text),
			Name:    name,
			Title:   coalesce(item.Title, fallback.Title),
			Initial: coalesce(item.Initial, initial(name)),
		})
	}
	return out
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return ""
}

func products(project *interfaces.ProjectSnapshot, generated *interfaces.GeneratedContent, marketplace, cardLabel string) []Product {
	copyByASIN := make(map[string]interfaces.GeneratedProduct, len(generated.Products))
	for _, item := range generated.Products {
		copyByASIN[item.ASIN] = item
	}

	ordered := slices.Clone(project.Products)
	slices.SortStableFunc(ordered, func(a, b interfaces.ProductSnapshot) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	out := make([]Product, 0, len(ordered))
	for _, item := range ordered {
		ai := copyByASIN[item.ASIN]
		out = append(out, Product{
			ASIN:         item.ASIN,
			Title:        coalesce(item.CustomTitle, ai.Title, item.GeneratedTitle, item.Title, "Product "+item.ASIN),
			Description:  coalesce(item.CustomDescription, ai.Description, item.GeneratedDescription, "A top pick from our collection."),
			ImageURL:     coalesce(safeURL(item.ImageURL), fmt.Sprintf("https://images-na.ssl-images-amazon.com/images/P/%s.jpg", url.PathEscape(item.ASIN))),
			AffiliateURL: AffiliateURL(marketplace, item.ASIN, project.TrackingID),
			Rating:       coalesce(ai.Rating, "4.5"),
			Price:        "Check Price",
			CTALabel:     cardLabel,
		})
	}
	return out
}

// AffiliateURL builds the product link https://www.<marketplace>/dp/<asin>?tag=<tracking>.
func AffiliateURL(marketplace, asin, trackingID string) string {
	link := fmt.Sprintf("https://www.%s/dp/%s", normalizeMarketplace(marketplace), url.PathEscape(strings.TrimSpace(asin)))
	if tag := strings.TrimSpace(trackingID); tag != "" {
		link += "?tag=" + url.QueryEscape(tag)
	}
	return link
}

func storeURL(marketplace, trackingID string) string {
	link := fmt.Sprintf("https://www.%s/", normalizeMarketplace(marketplace))
	if tag := strings.TrimSpace(trackingID); tag != "" {
		link += "?tag=" + url.QueryEscape(tag)
	}
	return link
}

func normalizeMarketplace(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, "https://")
	value = strings.TrimPrefix(value, "http://")
	value = strings.TrimPrefix(value, "www.")
	value = strings.TrimSuffix(value, "/")
	if value == "" {
		return DefaultMarketplace
	}
	return value
}

func comparison(items []Product) ([]ComparisonProduct, []ComparisonRow) {
	picked := items[:min(comparisonSize, len(items))]
	names := make([]ComparisonProduct, len(picked))
	for i, item := range picked {
		names[i] = ComparisonProduct{Name: item.Title}
	}

	quality := []string{"★★★★★", "★★★★☆", "★★★★☆"}
	rows := []ComparisonRow{
		{Name: "Quality Rating", Values: quality[:len(picked)]},
		{Name: "Prime Eligible", Values: repeat("✓", len(picked))},
		{Name: "Free Returns", Values: repeat("✓", len(picked))},
		{Name: "Our Pick", Values: repeat("-", len(picked))},
	}
	if len(picked) > 0 {
		rows[3].Values[0] = "✓"
	}
	return names, rows
}

func repeat(value string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func findCTA(ctas []interfaces.CTASnapshot, placement string) *interfaces.CTASnapshot {
	for i := range ctas {
		if ctas[i].Active && strings.EqualFold(strings.TrimSpace(ctas[i].Placement), placement) {
			return &ctas[i]
		}
	}
	return nil
}

func ctaLabel(ctas []interfaces.CTASnapshot, placement string) string {
	return labelOf(findCTA(ctas, placement))
}

func labelOf(cta *interfaces.CTASnapshot) string {
	if cta == nil {
		return ""
	}
	return cta.Label
}

func mainCTAURL(cta *interfaces.CTASnapshot, items []Product, marketplace, trackingID string) string {
	if cta != nil {
		if custom := safeURL(cta.CustomURL); custom != "" {
			return custom
		}
	}
	if len(items) > 0 {
		return items[0].AffiliateURL
	}
	return storeURL(marketplace, trackingID)
}
