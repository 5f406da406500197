// Package tmpl implements the section-marker template syntax used by the
// static site templates:
//
//	§key§              scalar substitution
//	§#key§ ... §/key§  section: repeated per list item, kept once when truthy
//	§^key§ ... §/key§  negated section: kept only when key is falsy
//	§.§                the current item inside a list of scalars
//
// Passes run negated sections first, then sections, then scalars. A
// placeholder with no matching scalar is left in the output.
package tmpl

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const (
	marker      = "§"
	itemKey     = "."
	openSection = "#"
	openNegated = "^"
	closeTag    = "/"
)

// Render expands template against data.
func Render(template string, data map[string]any) string {
	out := expand(template, openNegated, data)
	out = expand(out, openSection, data)
	return substitute(out, data)
}

// expand rewrites every block opened with kind ("#" or "^"). Blocks are
// matched to the first closing tag with the same key.
func expand(template, kind string, data map[string]any) string {
	opener := marker + kind
	var out strings.Builder
	rest := template
	for {
		start := strings.Index(rest, opener)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		key, afterOpen, ok := readKey(rest[start+len(opener):])
		if !ok {
			out.WriteString(rest[:start+len(opener)])
			rest = rest[start+len(opener):]
			continue
		}
		closing := marker + closeTag + key + marker
		end := strings.Index(afterOpen, closing)
		if end < 0 {
			out.WriteString(rest[:start+len(opener)])
			rest = rest[start+len(opener):]
			continue
		}
		out.WriteString(rest[:start])
		inner := afterOpen[:end]
		if kind == openNegated {
			out.WriteString(renderNegated(inner, data[key], data))
		} else {
			out.WriteString(renderSection(inner, data[key], data))
		}
		rest = afterOpen[end+len(closing):]
	}
}

func renderNegated(inner string, value any, data map[string]any) string {
	if truthy(value) {
		return ""
	}
	return Render(inner, data)
}

func renderSection(inner string, value any, data map[string]any) string {
	if !truthy(value) {
		return ""
	}
	items, isList := listItems(value)
	if !isList {
		return Render(inner, data)
	}
	var out strings.Builder
	for _, item := range items {
		if fields, ok := item.(map[string]any); ok {
			scope := make(map[string]any, len(data)+len(fields))
			for key, v := range data {
				scope[key] = v
			}
			for key, v := range fields {
				scope[key] = v
			}
			out.WriteString(Render(inner, scope))
			continue
		}
		text, _ := scalarString(item)
		out.WriteString(Render(strings.ReplaceAll(inner, marker+itemKey+marker, text), data))
	}
	return out.String()
}

// substitute replaces §key§ for every scalar top-level key.
func substitute(template string, data map[string]any) string {
	if !strings.Contains(template, marker) {
		return template
	}
	var out strings.Builder
	rest := template
	for {
		start := strings.Index(rest, marker)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		key, after, ok := readKey(rest[start+len(marker):])
		if !ok {
			out.WriteString(rest[:start+len(marker)])
			rest = rest[start+len(marker):]
			continue
		}
		text, scalar := scalarString(data[key])
		if _, present := data[key]; !present || !scalar {
			// leave the opening marker and resume at the closing one, which
			// may itself open the next placeholder
			out.WriteString(rest[:start+len(marker)+len(key)])
			rest = rest[start+len(marker)+len(key):]
			continue
		}
		out.WriteString(rest[:start])
		out.WriteString(text)
		rest = after
	}
}

// readKey parses "key§..." and returns key and the text after the closing marker.
func readKey(s string) (string, string, bool) {
	end := strings.Index(s, marker)
	if end <= 0 {
		return "", "", false
	}
	key := s[:end]
	for _, r := range key {
		if !isKeyRune(r) {
			return "", "", false
		}
	}
	return key, s[end+len(marker):], true
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '.':
		return true
	}
	return false
}

func listItems(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case map[string]any:
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func scalarString(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", typed), true
	case fmt.Stringer:
		return typed.String(), true
	}
	return "", false
}
