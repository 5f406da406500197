package tmpl

// Palette is the set of colours a stylesheet may reference.
type Palette struct {
	Primary     string
	PrimaryDark string
	Secondary   string
	Accent      string
}

// SubstituteColors fills the §primary§, §primary-dark§, §secondary§ and
// §accent§ placeholders of a stylesheet.
func SubstituteColors(css string, palette Palette) string {
	return substitute(css, map[string]any{
		"primary":      palette.Primary,
		"primary-dark": palette.PrimaryDark,
		"secondary":    palette.Secondary,
		"accent":       palette.Accent,
	})
}
