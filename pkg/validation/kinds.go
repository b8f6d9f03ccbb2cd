package validation

import "strings"

// Kind names a single validation rule.
type Kind string

const (
	KindNotEmpty     Kind = "NOTEMPTY"
	KindEmail        Kind = "EMAIL"
	KindHour         Kind = "HOUR"
	KindNumber       Kind = "NUMBER"
	KindDate         Kind = "DATE"
	KindOptionalDate Kind = "?DATE"
)

var kindAliases = map[string]Kind{
	"NOTEMPTY":      KindNotEmpty,
	"NOT_EMPTY":     KindNotEmpty,
	"REQUIRED":      KindNotEmpty,
	"EMAIL":         KindEmail,
	"HOUR":          KindHour,
	"NUMBER":        KindNumber,
	"DATE":          KindDate,
	"?DATE":         KindOptionalDate,
	"OPTIONAL_DATE": KindOptionalDate,
}

// ParseKind maps a rule name onto its canonical Kind. Names are matched
// case-insensitively and both spellings of the not-empty and optional date
// rules are accepted. Unrecognised names are returned verbatim with ok=false
// so they still surface as unknown validators at validation time.
func ParseKind(raw string) (Kind, bool) {
	trimmed := strings.TrimSpace(raw)
	if kind, ok := kindAliases[strings.ToUpper(trimmed)]; ok {
		return kind, true
	}
	return Kind(trimmed), false
}

// Known reports whether k is one of the built-in rules.
func (k Kind) Known() bool {
	switch k {
	case KindNotEmpty, KindEmail, KindHour, KindNumber, KindDate, KindOptionalDate:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// Kinds returns the built-in rules in their canonical order.
func Kinds() []Kind {
	return []Kind{KindNotEmpty, KindEmail, KindHour, KindNumber, KindDate, KindOptionalDate}
}

// ParseKinds parses a list of rule names, preserving order and unknown names.
func ParseKinds(names ...string) []Kind {
	if len(names) == 0 {
		return nil
	}
	out := make([]Kind, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		kind, _ := ParseKind(name)
		out = append(out, kind)
	}
	return out
}
