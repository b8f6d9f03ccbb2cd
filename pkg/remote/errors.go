package remote

import (
	"math"
	"strconv"
	"strings"
)

var wrapperSegments = map[string]struct{}{
	"data":   {},
	"body":   {},
	"fields": {},
	"errors": {},
	"params": {},
	"form":   {},
}

// NormalizeErrors rewrites error keys given as JSON pointers or dotted paths
// ("/data/email", "fields.email", "email[0]") to plain field names. When two
// keys collapse onto one name, a truthy marker wins.
func NormalizeErrors(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for key, marker := range payload {
		name := normalizeErrorKey(key)
		if existing, ok := out[name]; ok && Truthy(existing) {
			continue
		}
		out[name] = marker
	}
	return out
}

func normalizeErrorKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "#")
	if trimmed == "" {
		return raw
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '/' || r == '.' || r == '[' || r == ']'
	})
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if _, wrapper := wrapperSegments[strings.ToLower(part)]; wrapper {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return raw
	}
	return strings.Join(kept, ".")
}

// Truthy reports whether an error marker flags its field. Only null, false,
// zero, NaN and the empty string do not; "0", "false", [] and {} do.
func Truthy(marker any) bool {
	switch v := marker.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
