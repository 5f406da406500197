package content

import (
	"context"

	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// StaticProvider serves a fixed bundle. It backs offline generation and tests.
type StaticProvider struct {
	name    string
	content interfaces.GeneratedContent
}

// NewStaticProvider returns a provider that always yields content.
func NewStaticProvider(name string, content interfaces.GeneratedContent) *StaticProvider {
	return &StaticProvider{name: name, content: content}
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Available() bool { return true }

func (p *StaticProvider) Generate(ctx context.Context, _ interfaces.ContentRequest) (*interfaces.GeneratedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := p.content
	out.Features = append([]interfaces.GeneratedFeature(nil), p.content.Features...)
	out.Products = append([]interfaces.GeneratedProduct(nil), p.content.Products...)
	out.Testimonials = append([]interfaces.GeneratedTestimonial(nil), p.content.Testimonials...)
	return &out, nil
}
