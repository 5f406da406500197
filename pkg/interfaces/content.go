package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// ContentProvider generates marketing copy for a project. Implementations wrap
// external AI services; Available reports whether credentials are configured.
type ContentProvider interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, req ContentRequest) (*GeneratedContent, error)
}

// ContentRequest carries the project facts a provider writes copy about.
type ContentRequest struct {
	ProjectID        uuid.UUID
	BrandName        string
	BrandDescription string
	Template         string
	Marketplace      string
	Products         []ProductSnapshot
}

// GeneratedContent is the bundle returned by a content provider. Any field may
// be empty; the render context falls back to built-in copy.
type GeneratedContent struct {
	Provider            string                 `json:"provider,omitempty"`
	Hero                GeneratedHero          `json:"hero"`
	Features            []GeneratedFeature     `json:"features,omitempty"`
	Products            []GeneratedProduct     `json:"products,omitempty"`
	Testimonials        []GeneratedTestimonial `json:"testimonials,omitempty"`
	CTA                 GeneratedCTA           `json:"cta"`
	Meta                GeneratedMeta          `json:"meta"`
	FeaturesSection     SectionCopy            `json:"featuresSection"`
	ProductsSection     SectionCopy            `json:"productsSection"`
	TestimonialsSection SectionCopy            `json:"testimonialsSection"`
	ComparisonSection   SectionCopy            `json:"comparisonSection"`
}

type GeneratedHero struct {
	Badge       string `json:"badge,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type GeneratedFeature struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GeneratedProduct is keyed by ASIN so copy can be matched to catalog products.
type GeneratedProduct struct {
	ASIN        string `json:"asin"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

type GeneratedTestimonial struct {
	Text    string `json:"text"`
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Initial string `json:"initial,omitempty"`
}

type GeneratedCTA struct {
	SectionTitle       string `json:"sectionTitle,omitempty"`
	SectionDescription string `json:"sectionDescription,omitempty"`
	ButtonLabel        string `json:"buttonLabel,omitempty"`
}

type GeneratedMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
}

type SectionCopy struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}
