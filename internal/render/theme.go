package render

import (
	_ "embed"
	"fmt"
	"path"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/tourtosky/affiliate-site-generator/internal/templates"
	"github.com/tourtosky/affiliate-site-generator/internal/tmpl"
)

const (
	// DefaultTheme backs projects whose template has no manifest.
	DefaultTheme = "default"

	StylesheetAsset = "stylesheet"
	themeVersion    = "1.0.0"
	assetPrefix     = "/assets"
	defaultSheet    = "site.css"

	tokenPrimary   = "primary"
	tokenSecondary = "secondary"
	tokenAccent    = "accent"
)

//go:embed templates/site.css
var siteStylesheet string

// Themes registers one go-theme manifest per site template. Manifests carry
// the template palette tokens and the stylesheet asset location.
type Themes struct {
	registry *gotheme.MemoryRegistry
	selector gotheme.Selector
}

// NewThemes builds manifests for every template in catalog. A nil catalog
// selects the built-in one.
func NewThemes(catalog *templates.Catalog) (*Themes, error) {
	if catalog == nil {
		catalog = templates.DefaultCatalog()
	}
	registry := gotheme.NewRegistry()

	if err := registry.Register(manifest(DefaultTheme, templates.Theme{})); err != nil {
		return nil, fmt.Errorf("register theme %s: %w", DefaultTheme, err)
	}
	for _, template := range catalog.List() {
		if err := registry.Register(manifest(template.ID, template.Theme)); err != nil {
			return nil, fmt.Errorf("register theme %s: %w", template.ID, err)
		}
	}

	return &Themes{
		registry: registry,
		selector: gotheme.Selector{
			Registry:     registry,
			DefaultTheme: DefaultTheme,
		},
	}, nil
}

func manifest(name string, theme templates.Theme) *gotheme.Manifest {
	sheet := defaultSheet
	if custom := strings.TrimSpace(theme.Stylesheet); custom != "" {
		sheet = path.Base(custom)
	}
	return &gotheme.Manifest{
		Name:    name,
		Version: themeVersion,
		Tokens: map[string]string{
			tokenPrimary:   coalesce(theme.Primary, DefaultPrimaryColor),
			tokenSecondary: coalesce(theme.Secondary, DefaultSecondaryColor),
			tokenAccent:    coalesce(theme.Accent, DefaultAccentColor),
		},
		Assets: gotheme.Assets{
			Prefix: assetPrefix,
			Files: map[string]string{
				StylesheetAsset: sheet,
			},
		},
	}
}

func (t *Themes) selection(templateID string) *gotheme.Selection {
	if t == nil {
		return nil
	}
	name := strings.TrimSpace(templateID)
	if name == "" {
		name = DefaultTheme
	}
	selection, err := t.selector.Select(name, "")
	if err != nil {
		selection, err = t.selector.Select(DefaultTheme, "")
		if err != nil {
			return nil
		}
	}
	return selection
}

// Palette returns the palette tokens of templateID's theme. Unknown
// templates get the default theme.
func (t *Themes) Palette(templateID string) tmpl.Palette {
	palette := tmpl.Palette{
		Primary:   DefaultPrimaryColor,
		Secondary: DefaultSecondaryColor,
		Accent:    DefaultAccentColor,
	}
	selection := t.selection(templateID)
	if selection == nil {
		return palette
	}
	tokens := selection.Tokens()
	palette.Primary = coalesce(tokens[tokenPrimary], palette.Primary)
	palette.Secondary = coalesce(tokens[tokenSecondary], palette.Secondary)
	palette.Accent = coalesce(tokens[tokenAccent], palette.Accent)
	return palette
}

// StylesheetPath returns the archive path of the theme stylesheet, relative
// to the site root.
func (t *Themes) StylesheetPath(templateID string) string {
	if selection := t.selection(templateID); selection != nil {
		if url, _ := selection.Asset(StylesheetAsset); strings.TrimSpace(url) != "" {
			return strings.TrimPrefix(url, "/")
		}
	}
	return path.Join(strings.TrimPrefix(assetPrefix, "/"), defaultSheet)
}

// Stylesheet returns the site stylesheet with palette substituted.
func Stylesheet(palette tmpl.Palette) string {
	return tmpl.SubstituteColors(siteStylesheet, palette)
}
