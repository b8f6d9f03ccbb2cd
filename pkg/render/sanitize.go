package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	infoPolicyOnce  sync.Once
	infoPolicy      *bluemonday.Policy
	addonPolicyOnce sync.Once
	addonPolicy     *bluemonday.Policy
)

// SanitizeInfo cleans field help text. Inline formatting and links survive.
func SanitizeInfo(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(infoSanitizer().Sanitize(trimmed))
}

// SanitizeAddon cleans addon markup. Only text and icon elements survive.
func SanitizeAddon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(addonSanitizer().Sanitize(trimmed))
}

func infoSanitizer() *bluemonday.Policy {
	infoPolicyOnce.Do(func() {
		infoPolicy = bluemonday.UGCPolicy()
	})
	return infoPolicy
}

func addonSanitizer() *bluemonday.Policy {
	addonPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("i", "span", "b", "strong", "em")
		policy.AllowAttrs("class", "aria-hidden").OnElements("i", "span")
		addonPolicy = policy
	})
	return addonPolicy
}
