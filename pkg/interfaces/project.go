package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// ProjectSource resolves the project snapshot a generation run works from.
// Project CRUD lives with the host application; the generator only reads.
type ProjectSource interface {
	Project(ctx context.Context, id uuid.UUID) (*ProjectSnapshot, error)
}

// ProjectSnapshot is the read-only view of an affiliate project at generation time.
type ProjectSnapshot struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug,omitempty"`
	BrandName        string            `json:"brandName"`
	BrandDescription string            `json:"brandDescription,omitempty"`
	Template         string            `json:"template,omitempty"`
	SelectedPages    []string          `json:"selectedPages,omitempty"`
	Colors           BrandColors       `json:"colors"`
	Marketplace      string            `json:"marketplace,omitempty"`
	TrackingID       string            `json:"trackingId,omitempty"`
	Products         []ProductSnapshot `json:"products,omitempty"`
	CTAs             []CTASnapshot     `json:"ctas,omitempty"`
	Domains          []DomainSnapshot  `json:"domains,omitempty"`
	Htaccess         HtaccessSettings  `json:"htaccess"`
}

// BrandColors holds the user-selected palette as hex strings.
type BrandColors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

type ProductSnapshot struct {
	ASIN                 string `json:"asin"`
	Title                string `json:"title,omitempty"`
	CustomTitle          string `json:"customTitle,omitempty"`
	CustomDescription    string `json:"customDescription,omitempty"`
	GeneratedTitle       string `json:"generatedTitle,omitempty"`
	GeneratedDescription string `json:"generatedDescription,omitempty"`
	ImageURL             string `json:"imageUrl,omitempty"`
	SortOrder            int    `json:"sortOrder"`
}

// CTASnapshot describes a call-to-action button. Placement names the slot it
// targets (hero, hero-secondary, product-card, navigation, footer, ...).
type CTASnapshot struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	LinkType  string `json:"linkType,omitempty"`
	CustomURL string `json:"customUrl,omitempty"`
	Placement string `json:"placement"`
	Active    bool   `json:"isActive"`
}

type DomainSnapshot struct {
	Domain  string `json:"domain"`
	Primary bool   `json:"isPrimary"`
}

// HtaccessSettings mirrors the per-project Apache options.
type HtaccessSettings struct {
	EnableGzip    bool   `json:"enableGzip"`
	EnableCaching bool   `json:"enableCaching"`
	ForceHTTPS    bool   `json:"forceHttps"`
	WWWRedirect   string `json:"wwwRedirect,omitempty"`
	CustomRules   string `json:"customRules,omitempty"`
}

// PrimaryDomain returns the domain flagged primary, falling back to the first entry.
func (p *ProjectSnapshot) PrimaryDomain() string {
	if p == nil || len(p.Domains) == 0 {
		return ""
	}
	for _, domain := range p.Domains {
		if domain.Primary {
			return domain.Domain
		}
	}
	return p.Domains[0].Domain
}
