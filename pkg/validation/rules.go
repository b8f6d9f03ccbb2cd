package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`(?i)^(([^<>()\[\]\.,;:\s@"]+(\.[^<>()\[\]\.,;:\s@"]+)*)|(".+"))@(([^<>()\[\]\.,;:\s@"]+\.)+[^<>()\[\]\.,;:\s@"]{2,})$`)
	hourPattern  = regexp.MustCompile(`(?i)^(([0-1][0-9])|(2[0-3]))h([0-5][0-9])$`)
	datePattern  = regexp.MustCompile(`(?i)^(0?[1-9]|[12][0-9]|3[01])[/\-](0?[1-9]|1[012])[/\-]\d{4} ([0-1][0-9]|2[0-3])h([0-5][0-9])$`)

	// numericPatterns mirror what a browser's Number() coerces: signed
	// decimals (overflow becomes Infinity), the literal Infinity, and
	// unsigned hex, binary and octal integers.
	numericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`),
		regexp.MustCompile(`^[+-]?Infinity$`),
		regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[bB][01]+|[oO][0-7]+)$`),
	}
)

// Check applies a single rule to value. OPTIONAL_DATE failures are reported
// as DATE, matching the message a user should see.
func Check(kind Kind, value string) Result {
	switch kind {
	case KindNotEmpty:
		if len(value) == 0 {
			return Invalid(KindNotEmpty)
		}
	case KindEmail:
		if !emailPattern.MatchString(value) {
			return Invalid(KindEmail)
		}
	case KindHour:
		if !hourPattern.MatchString(value) {
			return Invalid(KindHour)
		}
	case KindDate:
		if !datePattern.MatchString(value) {
			return Invalid(KindDate)
		}
	case KindOptionalDate:
		if len(value) > 0 && !datePattern.MatchString(value) {
			return Invalid(KindDate)
		}
	case KindNumber:
		if !isNumeric(value) {
			return Invalid(KindNumber)
		}
	default:
		return Unknown(kind)
	}
	return Valid()
}

// Run applies kinds in order and stops at the first rule that does not pass.
func Run(kinds []Kind, value string) Result {
	for _, kind := range kinds {
		if result := Check(kind, value); !result.OK() {
			return result
		}
	}
	return Valid()
}

// isNumeric accepts blank input the same way browsers coerce "" to zero.
func isNumeric(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	for _, pattern := range numericPatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}
