package render

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// text strips markup from copy before it lands in element content.
func text(value string) string {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy.Sanitize(value)
}

// attr escapes a value placed inside a quoted attribute.
func attr(value string) string {
	return html.EscapeString(value)
}

// safeURL returns value when it is an http(s) or relative URL, else "".
func safeURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, "\x00\r\n\t") {
		return ""
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https":
		return value
	default:
		return ""
	}
}

var cssURLEscaper = strings.NewReplacer(
	"'", "%27",
	`"`, "%22",
	"(", "%28",
	")", "%29",
	`\`, "%5C",
	" ", "%20",
	";", "%3B",
)

// cssURL makes value safe inside a single quoted CSS url() that itself sits
// in a style attribute. Disallowed URLs yield "".
func cssURL(value string) string {
	safe := safeURL(value)
	if safe == "" {
		return ""
	}
	return attr(cssURLEscaper.Replace(safe))
}
