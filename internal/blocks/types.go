package blocks

import "maps"

// BlockType identifies a block kind. The set is closed: every known type has a
// constant below and a catalog entry. Values outside the set may still appear
// in persisted layouts; they are carried along and rendered as nothing.
type BlockType string

const (
	HeroStandard      BlockType = "hero-standard"
	NavSimple         BlockType = "nav-simple"
	ProductsGrid      BlockType = "products-grid"
	ProductsSpotlight BlockType = "products-spotlight"
	ReviewsSummary    BlockType = "reviews-summary"
	ContentText       BlockType = "content-text"
	CTABanner         BlockType = "cta-banner"
	ContentTrust      BlockType = "content-trust"
	ContentFAQ        BlockType = "content-faq"
	FooterStandard    BlockType = "footer-standard"
	FeaturesGrid      BlockType = "features-grid"
	ComparisonTable   BlockType = "comparison-table"
	Testimonials      BlockType = "testimonials"
)

// Category groups block types in the editor palette.
type Category string

const (
	CategoryHero       Category = "hero"
	CategoryNavigation Category = "navigation"
	CategoryProducts   Category = "products"
	CategoryReviews    Category = "reviews"
	CategoryContent    Category = "content"
	CategoryCTA        Category = "cta"
	CategoryFooter     Category = "footer"
)

// Categories lists every category in palette order.
func Categories() []Category {
	return []Category{
		CategoryHero,
		CategoryNavigation,
		CategoryProducts,
		CategoryReviews,
		CategoryContent,
		CategoryCTA,
		CategoryFooter,
	}
}

// FieldType describes the editor control for a property.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldImage       FieldType = "image"
	FieldSelect      FieldType = "select"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldProductRef  FieldType = "productRef"
	FieldProductRefs FieldType = "productRefs"
	FieldCTARef      FieldType = "ctaRef"
)

// SelectOption is one choice of a select field.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PropertyField describes one editable property of a block type.
type PropertyField struct {
	Name         string         `json:"name"`
	Label        string         `json:"label"`
	Type         FieldType      `json:"type"`
	Required     bool           `json:"required,omitempty"`
	DefaultValue any            `json:"defaultValue,omitempty"`
	Options      []SelectOption `json:"options,omitempty"`
	Min          *float64       `json:"min,omitempty"`
	Max          *float64       `json:"max,omitempty"`
	Placeholder  string         `json:"placeholder,omitempty"`
}

// Definition is the immutable catalog entry of a block type.
type Definition struct {
	ID                BlockType       `json:"id"`
	Name              string          `json:"name"`
	Category          Category        `json:"category"`
	Description       string          `json:"description"`
	CTASlots          []string        `json:"ctaSlots"`
	Properties        []PropertyField `json:"properties"`
	DefaultProperties map[string]any  `json:"defaultProperties"`
}

// Property returns the field declared under name.
func (d Definition) Property(name string) (PropertyField, bool) {
	for _, field := range d.Properties {
		if field.Name == name {
			return field, true
		}
	}
	return PropertyField{}, false
}

func (d Definition) clone() Definition {
	out := d
	out.CTASlots = append([]string(nil), d.CTASlots...)
	out.Properties = make([]PropertyField, len(d.Properties))
	for i, field := range d.Properties {
		field.Options = append([]SelectOption(nil), field.Options...)
		out.Properties[i] = field
	}
	out.DefaultProperties = cloneProperties(d.DefaultProperties)
	return out
}

// cloneProperties copies a property map one level deep; slice values (such as
// productIds) are copied too so callers never share backing arrays with the catalog.
func cloneProperties(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	maps.Copy(out, src)
	for key, value := range out {
		switch typed := value.(type) {
		case []any:
			out[key] = append([]any{}, typed...)
		case []string:
			out[key] = append([]string{}, typed...)
		}
	}
	return out
}
