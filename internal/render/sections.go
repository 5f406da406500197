package render

import (
	"fmt"
	"strings"
)

const arrowIcon = `<svg width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" viewBox="0 0 24 24"><path d="M5 12h14M12 5l7 7-7 7"/></svg>`

func brandMark(ctx *Context) string {
	if ctx.HasLogo {
		return fmt.Sprintf(`<img src="%s" alt="%s" class="logo-img">`, attr(ctx.LogoURL), attr(ctx.BrandName))
	}
	return text(ctx.BrandName)
}

func sectionHeader(title, subtitle string) string {
	return fmt.Sprintf(`
      <div class="section-header">
        <h2>%s</h2>
        <p>%s</p>
      </div>`, text(title), text(subtitle))
}

func renderNav(ctx *Context, _ properties) string {
	return fmt.Sprintf(`
  <!-- Header -->
  <header class="header">
    <div class="container header-inner">
      <a href="/" class="logo">%s</a>
      <nav class="nav">
        <a href="#features">Features</a>
        <a href="#products">Products</a>
        <a href="#compare">Compare</a>
        <a href="#reviews">Reviews</a>
      </nav>
      <a href="%s" class="header-cta" target="_blank" rel="nofollow noopener">%s</a>
    </div>
  </header>`, brandMark(ctx), attr(ctx.MainCTAURL), text(ctx.MainCTALabel))
}

func renderHero(ctx *Context, props properties) string {
	badge := coalesce(props.override("badge"), ctx.HeroBadge)
	title := coalesce(props.override("title"), ctx.HeroTitle, props.fallback("title"))
	subtitle := coalesce(props.override("subtitle"), ctx.HeroDescription, props.fallback("subtitle"))

	style := ""
	if image := cssURL(props.override("backgroundImage")); image != "" {
		style = fmt.Sprintf(` style="background-image: url('%s')"`, image)
	}

	return fmt.Sprintf(`
  <!-- Hero -->
  <section class="hero" data-align="%s"%s>
    <div class="container">
      <div class="hero-content">
        <span class="hero-badge">%s</span>
        <h1>%s</h1>
        <p>%s</p>
        <div class="hero-buttons">
          <a href="%s" class="btn btn-primary" target="_blank" rel="nofollow noopener">
            %s
            %s
          </a>
          <a href="#products" class="btn btn-outline">View Products</a>
        </div>
      </div>
    </div>
  </section>`,
		attr(props.hint("alignment", "center")), style,
		text(badge), text(title), text(subtitle),
		attr(ctx.MainCTAURL), text(ctx.MainCTALabel), arrowIcon)
}

func renderFeatures(ctx *Context, props properties) string {
	title := coalesce(props.override("title"), ctx.FeaturesTitle, props.fallback("title"))
	subtitle := coalesce(props.override("subtitle"), ctx.FeaturesSubtitle, props.fallback("subtitle"))

	var cards strings.Builder
	for _, feature := range ctx.Features {
		fmt.Fprintf(&cards, `
        <div class="feature-card">
          <div class="feature-icon">%s</div>
          <h3>%s</h3>
          <p>%s</p>
        </div>`, text(feature.Icon), text(feature.Title), text(feature.Description))
	}

	return fmt.Sprintf(`
  <!-- Features -->
  <section class="features" id="features">
    <div class="container">%s
      <div class="features-grid" data-columns="%s">
        %s
      </div>
    </div>
  </section>`, sectionHeader(title, subtitle), attr(props.hint("columns", "4")), cards.String())
}

func renderProducts(ctx *Context, props properties) string {
	title := coalesce(props.override("title"), ctx.ProductsTitle)
	subtitle := coalesce(props.override("subtitle"), ctx.ProductsSubtitle)
	showRatings := props.flag("showRatings", true)
	showPrices := props.flag("showPrices", true)

	var cards strings.Builder
	for _, product := range ctx.Products {
		var meta strings.Builder
		if showRatings {
			fmt.Fprintf(&meta, `
              <span class="product-rating">★★★★★ %s</span>`, text(product.Rating))
		}
		if showPrices {
			fmt.Fprintf(&meta, `
              <span class="product-price">%s</span>`, text(product.Price))
		}
		fmt.Fprintf(&cards, `
        <div class="product-card">
          <div class="product-image">
            <img src="%s" alt="%s" loading="lazy">
          </div>
          <div class="product-content">
            <h3>%s</h3>
            <p>%s</p>
            <div class="product-meta">%s
            </div>
            <a href="%s" class="product-cta" target="_blank" rel="nofollow noopener sponsored">
              %s
            </a>
          </div>
        </div>`,
			attr(product.ImageURL), attr(product.Title),
			text(product.Title), text(product.Description),
			meta.String(),
			attr(product.AffiliateURL), text(product.CTALabel))
	}

	return fmt.Sprintf(`
  <!-- Products -->
  <section class="products" id="products">
    <div class="container">%s
      <div class="products-grid">
        %s
      </div>
    </div>
  </section>`, sectionHeader(title, subtitle), cards.String())
}

func renderComparison(ctx *Context, props properties) string {
	title := coalesce(props.override("title"), ctx.ComparisonTitle, props.fallback("title"))
	subtitle := coalesce(props.override("subtitle"), ctx.ComparisonSubtitle, props.fallback("subtitle"))

	var header strings.Builder
	for _, product := range ctx.ComparisonProducts {
		fmt.Fprintf(&header, "<th>%s</th>", text(product.Name))
	}
	var rows strings.Builder
	for _, row := range ctx.ComparisonRows {
		var cells strings.Builder
		for _, value := range row.Values {
			fmt.Fprintf(&cells, "<td>%s</td>", text(value))
		}
		fmt.Fprintf(&rows, `
          <tr>
            <td><strong>%s</strong></td>
            %s
          </tr>`, text(row.Name), cells.String())
	}

	return fmt.Sprintf(`
  <!-- Comparison -->
  <section class="comparison" id="compare">
    <div class="container">%s
      <table class="comparison-table">
        <thead>
          <tr>
            <th>Feature</th>
            %s
          </tr>
        </thead>
        <tbody>
          %s
        </tbody>
      </table>
    </div>
  </section>`, sectionHeader(title, subtitle), header.String(), rows.String())
}

func renderTestimonials(ctx *Context, props properties) string {
	title := coalesce(props.override("title"), ctx.TestimonialsTitle, props.fallback("title"))
	subtitle := coalesce(props.override("subtitle"), ctx.TestimonialsSubtitle, props.fallback("subtitle"))

	var cards strings.Builder
	for _, item := range ctx.Testimonials {
		fmt.Fprintf(&cards, `
        <div class="testimonial-card">
          <p class="testimonial-text">“%s”</p>
          <div class="testimonial-author">
            <div class="testimonial-avatar">%s</div>
            <div>
              <div class="testimonial-name">%s</div>
              <div class="testimonial-title">%s</div>
            </div>
          </div>
        </div>`, text(item.Text), text(item.Initial), text(item.Name), text(item.Title))
	}

	return fmt.Sprintf(`
  <!-- Testimonials -->
  <section class="testimonials" id="reviews">
    <div class="container">%s
      <div class="testimonials-grid">
        %s
      </div>
    </div>
  </section>`, sectionHeader(title, subtitle), cards.String())
}

func renderCTABanner(ctx *Context, props properties) string {
	title := coalesce(props.override("title"), ctx.CTASectionTitle)
	subtitle := coalesce(props.override("subtitle"), props.override("text"), ctx.CTASectionDescription)

	return fmt.Sprintf(`
  <!-- CTA Section -->
  <section class="cta-section" data-style="%s">
    <div class="container">
      <h2>%s</h2>
      <p>%s</p>
      <a href="%s" class="btn" target="_blank" rel="nofollow noopener">
        %s
        %s
      </a>
    </div>
  </section>`,
		attr(props.hint("style", "primary")),
		text(title), text(subtitle),
		attr(ctx.MainCTAURL), text(ctx.MainCTALabel), arrowIcon)
}

func renderFooter(ctx *Context, _ properties) string {
	return fmt.Sprintf(`
  <!-- Footer -->
  <footer class="footer">
    <div class="container">
      <div class="footer-grid">
        <div class="footer-brand">
          <a href="/" class="logo">%s</a>
          <p>%s</p>
        </div>
        <div class="footer-column">
          <h4>Quick Links</h4>
          <ul>
            <li><a href="#features">Features</a></li>
            <li><a href="#products">Products</a></li>
            <li><a href="#compare">Compare</a></li>
            <li><a href="#reviews">Reviews</a></li>
          </ul>
        </div>
        <div class="footer-column">
          <h4>Support</h4>
          <ul>
            <li><a href="#">Contact Us</a></li>
            <li><a href="#">FAQ</a></li>
            <li><a href="#">Shipping Info</a></li>
            <li><a href="#">Returns</a></li>
          </ul>
        </div>
        <div class="footer-column">
          <h4>Legal</h4>
          <ul>
            <li><a href="#">Privacy Policy</a></li>
            <li><a href="#">Terms of Service</a></li>
            <li><a href="#">Affiliate Disclosure</a></li>
          </ul>
        </div>
      </div>

      <div class="affiliate-disclosure">
        <strong>Affiliate Disclosure:</strong> %s
      </div>

      <div class="footer-bottom">
        <p>&copy; %d %s. All rights reserved.</p>
        <p>As an Amazon Associate, we earn from qualifying purchases.</p>
      </div>
    </div>
  </footer>`, brandMark(ctx), text(ctx.BrandDescription), text(ctx.AffiliateDisclosure), ctx.Year, text(ctx.BrandName))
}
