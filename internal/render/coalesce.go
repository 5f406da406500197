package render

import (
	"strconv"
	"strings"

	"github.com/tourtosky/affiliate-site-generator/internal/util"
)

// coalesce returns the first non-blank value. Callers list sources in
// precedence order: instance override, generated copy, fallback literal.
func coalesce(values ...string) string {
	return util.FirstNonEmpty(values...)
}

// properties resolves a block instance's overrides over the registry
// defaults of its type.
type properties struct {
	values   map[string]any
	defaults map[string]any
}

// override returns the instance value only, ignoring defaults.
func (p properties) override(key string) string {
	return stringValue(p.values[key])
}

// fallback returns the registry default for key.
func (p properties) fallback(key string) string {
	return stringValue(p.defaults[key])
}

// hint resolves a style hint: instance value, then registry default, then literal.
func (p properties) hint(key, literal string) string {
	return coalesce(p.override(key), p.fallback(key), literal)
}

// flag resolves a boolean hint the same way hint does.
func (p properties) flag(key string, literal bool) bool {
	if value, ok := boolValue(p.values[key]); ok {
		return value
	}
	if value, ok := boolValue(p.defaults[key]); ok {
		return value
	}
	return literal
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	}
	return ""
}

func boolValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}
