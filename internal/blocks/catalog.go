package blocks

func bound(v float64) *float64 { return &v }

var alignmentOptions = []SelectOption{
	{Label: "Left", Value: "left"},
	{Label: "Center", Value: "center"},
	{Label: "Right", Value: "right"},
}

// catalog lists every known block type in palette order.
func catalog() []Definition {
	return []Definition{
		{
			ID:          HeroStandard,
			Name:        "Hero - Standard",
			Category:    CategoryHero,
			Description: "Full-width hero with headline, description, and CTA",
			CTASlots:    []string{"hero-main", "hero-secondary"},
			Properties: []PropertyField{
				{Name: "title", Label: "Title", Type: FieldText, Required: true, DefaultValue: "Welcome to Our Site"},
				{Name: "subtitle", Label: "Subtitle", Type: FieldTextarea, DefaultValue: ""},
				{Name: "backgroundImage", Label: "Background Image", Type: FieldImage},
				{Name: "alignment", Label: "Alignment", Type: FieldSelect, Options: alignmentOptions, DefaultValue: "center"},
				{Name: "ctaId", Label: "Primary CTA", Type: FieldCTARef},
			},
			DefaultProperties: map[string]any{
				"title":           "Welcome to Our Site",
				"subtitle":        "",
				"backgroundImage": "",
				"alignment":       "center",
				"ctaId":           nil,
			},
		},
		{
			ID:          NavSimple,
			Name:        "Navigation - Simple",
			Category:    CategoryNavigation,
			Description: "Simple header with logo and menu",
			CTASlots:    []string{"header-cta"},
			Properties: []PropertyField{
				{Name: "logoUrl", Label: "Logo", Type: FieldImage},
				{Name: "sticky", Label: "Sticky Header", Type: FieldBoolean, DefaultValue: true},
				{Name: "showSearch", Label: "Show Search", Type: FieldBoolean, DefaultValue: false},
			},
			DefaultProperties: map[string]any{
				"logoUrl":    "",
				"sticky":     true,
				"showSearch": false,
			},
		},
		{
			ID:          ProductsGrid,
			Name:        "Product Grid",
			Category:    CategoryProducts,
			Description: "Grid layout for product cards",
			CTASlots:    []string{"product-card-cta"},
			Properties: []PropertyField{
				{Name: "productIds", Label: "Products", Type: FieldProductRefs, Required: true},
				{Name: "columns", Label: "Columns", Type: FieldNumber, Min: bound(2), Max: bound(4), DefaultValue: 3},
				{Name: "showRatings", Label: "Show Ratings", Type: FieldBoolean, DefaultValue: true},
				{Name: "showPrices", Label: "Show Prices", Type: FieldBoolean, DefaultValue: true},
			},
			DefaultProperties: map[string]any{
				"productIds":  []any{},
				"columns":     3,
				"showRatings": true,
				"showPrices":  true,
			},
		},
		{
			ID:          ProductsSpotlight,
			Name:        "Product Spotlight",
			Category:    CategoryProducts,
			Description: "Featured product with large image and details",
			CTASlots:    []string{"spotlight-cta", "spotlight-secondary"},
			Properties: []PropertyField{
				{Name: "productId", Label: "Product", Type: FieldProductRef, Required: true},
				{Name: "layout", Label: "Layout", Type: FieldSelect, Options: []SelectOption{
					{Label: "Image Left", Value: "left"},
					{Label: "Image Right", Value: "right"},
				}, DefaultValue: "left"},
				{Name: "showSpecs", Label: "Show Specifications", Type: FieldBoolean, DefaultValue: true},
				{Name: "ctaId", Label: "CTA Button", Type: FieldCTARef},
			},
			DefaultProperties: map[string]any{
				"productId": nil,
				"layout":    "left",
				"showSpecs": true,
				"ctaId":     nil,
			},
		},
		{
			ID:          ReviewsSummary,
			Name:        "Review Summary",
			Category:    CategoryReviews,
			Description: "Overall score with pros, cons, and verdict",
			CTASlots:    []string{"review-cta"},
			Properties: []PropertyField{
				{Name: "productId", Label: "Product", Type: FieldProductRef, Required: true},
				{Name: "showProscons", Label: "Show Pros/Cons", Type: FieldBoolean, DefaultValue: true},
				{Name: "rating", Label: "Rating (1-5)", Type: FieldNumber, Min: bound(1), Max: bound(5), DefaultValue: 4},
				{Name: "verdict", Label: "Verdict", Type: FieldTextarea},
			},
			DefaultProperties: map[string]any{
				"productId":    nil,
				"showProscons": true,
				"rating":       4,
				"verdict":      "",
			},
		},
		{
			ID:          ContentText,
			Name:        "Content - Text Block",
			Category:    CategoryContent,
			Description: "Rich text content section",
			CTASlots:    []string{},
			Properties: []PropertyField{
				{Name: "heading", Label: "Heading", Type: FieldText},
				{Name: "body", Label: "Body", Type: FieldTextarea, Required: true},
				{Name: "alignment", Label: "Alignment", Type: FieldSelect, Options: alignmentOptions, DefaultValue: "left"},
			},
			DefaultProperties: map[string]any{
				"heading":   "",
				"body":      "",
				"alignment": "left",
			},
		},
		{
			ID:          CTABanner,
			Name:        "CTA Banner",
			Category:    CategoryCTA,
			Description: "Full-width call-to-action banner",
			CTASlots:    []string{"banner-cta"},
			Properties: []PropertyField{
				{Name: "ctaId", Label: "CTA", Type: FieldCTARef, Required: true},
				{Name: "style", Label: "Style", Type: FieldSelect, Options: []SelectOption{
					{Label: "Primary", Value: "primary"},
					{Label: "Secondary", Value: "secondary"},
					{Label: "Accent", Value: "accent"},
				}, DefaultValue: "primary"},
				{Name: "fullWidth", Label: "Full Width", Type: FieldBoolean, DefaultValue: true},
				{Name: "text", Label: "Banner Text", Type: FieldText},
			},
			DefaultProperties: map[string]any{
				"ctaId":     nil,
				"style":     "primary",
				"fullWidth": true,
				"text":      "",
			},
		},
		{
			ID:          ContentTrust,
			Name:        "Trust Badges",
			Category:    CategoryContent,
			Description: "Security and trust indicators",
			CTASlots:    []string{},
			Properties: []PropertyField{
				{Name: "showSecurePayment", Label: "Secure Payment", Type: FieldBoolean, DefaultValue: true},
				{Name: "showMoneyBack", Label: "Money Back Guarantee", Type: FieldBoolean, DefaultValue: true},
				{Name: "showFreeShipping", Label: "Free Shipping", Type: FieldBoolean, DefaultValue: false},
				{Name: "showSupport", Label: "24/7 Support", Type: FieldBoolean, DefaultValue: true},
				{Name: "layout", Label: "Layout", Type: FieldSelect, Options: []SelectOption{
					{Label: "Horizontal", Value: "horizontal"},
					{Label: "Grid", Value: "grid"},
				}, DefaultValue: "horizontal"},
			},
			DefaultProperties: map[string]any{
				"showSecurePayment": true,
				"showMoneyBack":     true,
				"showFreeShipping":  false,
				"showSupport":       true,
				"layout":            "horizontal",
			},
		},
		{
			ID:          ContentFAQ,
			Name:        "FAQ",
			Category:    CategoryContent,
			Description: "Accordion-style FAQ section",
			CTASlots:    []string{},
			Properties: []PropertyField{
				{Name: "heading", Label: "Section Heading", Type: FieldText, DefaultValue: "Frequently Asked Questions"},
				{Name: "expandable", Label: "Expandable Items", Type: FieldBoolean, DefaultValue: true},
				{Name: "items", Label: "FAQ Items (JSON)", Type: FieldTextarea, Placeholder: `[{"question": "...", "answer": "..."}]`},
			},
			DefaultProperties: map[string]any{
				"heading":    "Frequently Asked Questions",
				"expandable": true,
				"items":      "[]",
			},
		},
		{
			ID:          FooterStandard,
			Name:        "Footer - Standard",
			Category:    CategoryFooter,
			Description: "Multi-column footer with links",
			CTASlots:    []string{"footer-cta"},
			Properties: []PropertyField{
				{Name: "copyright", Label: "Copyright Text", Type: FieldText, DefaultValue: "© 2024 All rights reserved"},
				{Name: "showSocialLinks", Label: "Show Social Links", Type: FieldBoolean, DefaultValue: true},
				{Name: "columns", Label: "Columns", Type: FieldNumber, Min: bound(2), Max: bound(4), DefaultValue: 3},
			},
			DefaultProperties: map[string]any{
				"copyright":       "© 2024 All rights reserved",
				"showSocialLinks": true,
				"columns":         3,
			},
		},
		{
			ID:          FeaturesGrid,
			Name:        "Features Grid",
			Category:    CategoryContent,
			Description: "Grid of feature cards with icons",
			CTASlots:    []string{},
			Properties: []PropertyField{
				{Name: "title", Label: "Section Title", Type: FieldText, DefaultValue: "Why Choose Us?"},
				{Name: "subtitle", Label: "Subtitle", Type: FieldText, DefaultValue: "Discover the advantages of our products."},
				{Name: "columns", Label: "Columns", Type: FieldNumber, Min: bound(2), Max: bound(4), DefaultValue: 4},
			},
			DefaultProperties: map[string]any{
				"title":    "Why Choose Us?",
				"subtitle": "Discover the advantages of our products.",
				"columns":  4,
			},
		},
		{
			ID:          ComparisonTable,
			Name:        "Comparison Table",
			Category:    CategoryContent,
			Description: "Product comparison table",
			CTASlots:    []string{},
			Properties: []PropertyField{
				{Name: "title", Label: "Section Title", Type: FieldText, DefaultValue: "Why We Stand Out"},
				{Name: "subtitle", Label: "Subtitle", Type: FieldText, DefaultValue: "See how we compare to the competition."},
			},
			DefaultProperties: map[string]any{
				"title":    "Why We Stand Out",
				"subtitle": "See how we compare to the competition.",
			},
		},
		{
			ID:          Testimonials,
			Name:        "Testimonials",
			Category:    CategoryReviews,
			Description: "Customer testimonials section",
			CTASlots:    []string{},
			Properties: []PropertyField{
				{Name: "title", Label: "Section Title", Type: FieldText, DefaultValue: "What Our Customers Say"},
				{Name: "subtitle", Label: "Subtitle", Type: FieldText, DefaultValue: "Real feedback from satisfied users."},
			},
			DefaultProperties: map[string]any{
				"title":    "What Our Customers Say",
				"subtitle": "Real feedback from satisfied users.",
			},
		},
	}
}
