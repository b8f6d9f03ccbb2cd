package render

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "radius": "4px"},
		Templates: map[string]string{
			"modalform.input": "themes/acme/input.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{StylesheetAsset: "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{"modalform.checkbox": "themes/acme/dark/checkbox.tmpl"},
				Assets: theme.Assets{
					Files: map[string]string{"modalform.script": "dark.js"},
				},
			},
		},
	}
}

func TestThemeFromSelection_MergesVariant(t *testing.T) {
	cfg := ThemeFromSelection(&theme.Selection{Theme: "acme", Variant: "dark", Manifest: acmeManifest()}, DefaultPartials())

	if cfg.Partials["modalform.input"] != "themes/acme/input.tmpl" {
		t.Fatalf("expected manifest partial, got %q", cfg.Partials["modalform.input"])
	}
	if cfg.Partials["modalform.checkbox"] != "themes/acme/dark/checkbox.tmpl" {
		t.Fatalf("expected variant partial, got %q", cfg.Partials["modalform.checkbox"])
	}
	if cfg.Partials["modalform.select"] != DefaultPartials()["modalform.select"] {
		t.Fatalf("expected fallback partial for select")
	}

	wantVars := map[string]string{"--brand": "#654321", "--radius": "4px"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL(StylesheetAsset); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("modalform.script"); got != "/assets/themes/acme/dark.js" {
		t.Fatalf("unexpected variant asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestThemeFromSelection_Nil(t *testing.T) {
	if cfg := ThemeFromSelection(nil, nil); cfg != nil {
		t.Fatalf("expected nil config")
	}
}

func TestManifestSelector(t *testing.T) {
	selector, err := NewManifestSelector(acmeManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	cfg, err := ThemeFromSelector(selector, "", "dark")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}

	if _, err := selector.Select("other", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := selector.Select("acme", "light"); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound for variant, got %v", err)
	}
	if err := selector.Register(acmeManifest()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if diff := cmp.Diff([]string{"acme"}, selector.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCSSVarsStyleStripsMarkup(t *testing.T) {
	got := cssVarsStyle(map[string]string{"--x": "red</style><script>"})
	if got != ":root {\n--x: red/stylescript;\n}" {
		t.Fatalf("unexpected css %q", got)
	}
}
