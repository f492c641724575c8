package permissions

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Container keys probed, in priority order, when the payload arrives as a
// wrapper object instead of a bare list.
var wrapperKeys = []string{"permissoes", "permissions", "data", "items", "lista", "registros"}

// Normalize resolves a raw permission payload of any known shape into the
// canonical record list. Accepted shapes:
//
//   - a list of loosely-shaped objects
//   - a wrapper object holding the list under one of wrapperKeys
//   - a string in the legacy XML list format (leading '<' after trimming)
//   - an already-canonical []Record
//
// Unrecognized payloads and legacy parse failures yield an empty list so
// callers degrade to zero permissions instead of failing.
func Normalize(raw any) []Record {
	switch v := raw.(type) {
	case nil:
		return []Record{}
	case []Record:
		out := make([]Record, len(v))
		copy(out, v)
		return out
	case Set:
		out := make([]Record, len(v))
		copy(out, v)
		return out
	}

	entries := resolveList(raw)
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		switch e := entry.(type) {
		case map[string]any:
			records = append(records, fromRawMap(e))
		case Record:
			records = append(records, e)
		default:
			// not a record-shaped entry; skip rather than abort
		}
	}
	return records
}

// resolveList turns the payload into a flat []any of raw entries.
func resolveList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	case string:
		if strings.HasPrefix(strings.TrimSpace(v), "<") {
			return parseLegacyList(v)
		}
		return nil
	case map[string]any:
		for _, key := range wrapperKeys {
			if inner, ok := v[key]; ok {
				if list := asList(inner); list != nil {
					return list
				}
			}
		}
		return nil
	default:
		return nil
	}
}

// asList accepts only list-shaped wrapper values.
func asList(v any) []any {
	switch inner := v.(type) {
	case []any:
		return inner
	case []map[string]any:
		out := make([]any, len(inner))
		for i, m := range inner {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		return 0
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0
		}
		if i, err := strconv.Atoi(trimmed); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		// keep integral numbers free of a trailing ".0"
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// coerceBool keeps booleans as-is; anything else is stringified, lowercased
// and compared to the literal "true". Backends have sent "True", "true" and
// real booleans for the same column.
func coerceBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(v))) == "true"
}
