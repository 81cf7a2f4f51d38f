// Package render turns decoded backend payloads into displayable text
// and HTML fragments. All escaping, formatting, and truncation happens
// here, at render time; fetched data is never mutated.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Dash is the placeholder shown for absent values.
const Dash = "—"

// asString renders a decoded JSON value the way a browser would print
// it: null as "null", numbers without a spurious exponent, and nested
// structures as compact JSON.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// Truthy reports whether a decoded JSON value is truthy in the loose
// sense the backend's ok flag relies on: nil, false, zero numbers, and
// empty strings are falsy; everything else, including empty objects and
// arrays, is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
