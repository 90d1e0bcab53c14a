package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Props is the open option bag of a node. Accessors are lenient: a missing or
// mistyped value yields the supplied default instead of an error.
type Props map[string]interface{}

// Has reports whether the key is present with a non-nil value.
func (p Props) Has(key string) bool {
	if p == nil {
		return false
	}
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value as a string. Numbers and booleans are formatted.
func (p Props) String(key, def string) string {
	if !p.Has(key) {
		return def
	}
	switch v := p[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return def
	}
}

// Int returns the value as an int. Whole floats and numeric strings convert.
func (p Props) Int(key string, def int) int {
	if !p.Has(key) {
		return def
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Float returns the value as a float64.
func (p Props) Float(key string, def float64) float64 {
	if !p.Has(key) {
		return def
	}
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the value as a bool. "true"/"false" strings convert.
func (p Props) Bool(key string, def bool) bool {
	if !p.Has(key) {
		return def
	}
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// Map returns a nested mapping value, or nil.
func (p Props) Map(key string) map[string]interface{} {
	if !p.Has(key) {
		return nil
	}
	if m, ok := p[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}

// Strings returns a list of strings. A single string yields a one-element list.
func (p Props) Strings(key string) []string {
	if !p.Has(key) {
		return nil
	}
	switch v := p[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for i := range v {
			out = append(out, Props{"v": v[i]}.String("v", ""))
		}
		return out
	}
	return nil
}

// OneOf returns the string value when it is one of allowed, def otherwise.
// Comparison ignores case; the canonical spelling from allowed is returned.
func (p Props) OneOf(key, def string, allowed ...string) string {
	raw := p.String(key, "")
	for _, candidate := range allowed {
		if strings.EqualFold(raw, candidate) {
			return candidate
		}
	}
	return def
}
