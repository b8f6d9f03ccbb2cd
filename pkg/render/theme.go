package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the asset key resolved through the theme AssetURL to
// emit a stylesheet link inside the modal.
const StylesheetAsset = "modalform.stylesheet"

// ErrThemeNotFound is returned by ManifestSelector for unknown themes.
var ErrThemeNotFound = errors.New("render: theme not found")

// DefaultPartials maps component partial keys to the embedded templates.
func DefaultPartials() map[string]string {
	return map[string]string{
		"modalform.modal":    "templates/modal.tmpl",
		"modalform.input":    "templates/components/input.tmpl",
		"modalform.textarea": "templates/components/textarea.tmpl",
		"modalform.checkbox": "templates/components/checkbox.tmpl",
		"modalform.upload":   "templates/components/upload.tmpl",
		"modalform.select":   "templates/components/select.tmpl",
	}
}

// ThemeFromSelection flattens a theme selection into renderer configuration.
// Variant values override manifest values, which override fallbacks.
func ThemeFromSelection(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	maps.Copy(cfg.Partials, fallbacks)

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	maps.Copy(cfg.Partials, manifest.Templates)
	maps.Copy(cfg.Tokens, manifest.Tokens)
	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = make(map[string]string)
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(cfg.Partials, variant.Templates)
		maps.Copy(cfg.Tokens, variant.Tokens)
		maps.Copy(files, variant.Assets.Files)
		if strings.TrimSpace(variant.Assets.Prefix) != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

// ThemeFromSelector selects name/variant and flattens the result.
func ThemeFromSelector(selector theme.ThemeSelector, name, variant string, opts ...theme.QueryOption) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is nil")
	}
	selection, err := selector.Select(name, variant, opts...)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return ThemeFromSelection(selection, DefaultPartials()), nil
}

// ManifestSelector is an in-memory theme.ThemeSelector. An empty name selects
// the default theme.
type ManifestSelector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

// NewManifestSelector registers manifests; the first becomes the default.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	selector := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if err := selector.Register(manifest); err != nil {
			return nil, err
		}
	}
	return selector, nil
}

// Register adds manifest under its name.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("render: theme manifest requires a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	if s.fallback == "" {
		s.fallback = manifest.Name
	}
	return nil
}

// Names lists registered themes, sorted.
func (s *ManifestSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.manifests))
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		name = s.fallback
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q variant %q", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || strings.TrimSpace(file) == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func themePayload(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	payload := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"css":     cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		if href := cfg.AssetURL(StylesheetAsset); href != "" {
			payload["stylesheets"] = []string{href}
		}
	}
	return payload
}

var cssValueCleaner = strings.NewReplacer("<", "", ">", "", ";", "", "{", "", "}", "")

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cssValueCleaner.Replace(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
