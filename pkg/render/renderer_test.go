package render

import (
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/render/components"
)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	renderer, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderField(t *testing.T, r *Renderer, component string, spec model.FieldSpec) string {
	t.Helper()
	out, err := r.Field(FieldView{ID: "form" + strings.ToUpper(spec.Name[:1]) + spec.Name[1:], Component: component, Spec: spec})
	if err != nil {
		t.Fatalf("render field %q: %v", spec.Name, err)
	}
	return out
}

func TestRenderer_FieldMarkupPerType(t *testing.T) {
	r := newTestRenderer(t)

	cases := []struct {
		name      string
		component string
		spec      model.FieldSpec
		contains  []string
		absent    []string
	}{
		{
			name:      "text with default and addon",
			component: components.NameInput,
			spec:      model.FieldSpec{Name: "city", Title: "City", Addon: `<i class="icon-pin" onclick="x()"></i>`, Default: "Paris"},
			contains: []string{
				`<label for="formCity" class="control-label">City</label>`,
				`id="formCity"`,
				`value="Paris"`,
				`data-field-type="text"`,
				`<span class="input-group-addon"><i class="icon-pin"></i></span>`,
			},
			absent: []string{"onclick"},
		},
		{
			name:      "price gets euro addon",
			component: components.NameInput,
			spec:      model.FieldSpec{Name: "price", Type: model.FieldPrice, Default: 12.5},
			contains:  []string{`value="12.5"`, `<span class="input-group-addon">€</span>`, `data-field-type="price"`},
		},
		{
			name:      "password never echoes default",
			component: components.NameInput,
			spec:      model.FieldSpec{Name: "secret", Type: model.FieldPassword, Default: "hunter2"},
			contains:  []string{`type="password"`, `value=""`},
			absent:    []string{"hunter2", "input-group-addon"},
		},
		{
			name:      "checkbox checked from default 1",
			component: components.NameCheckbox,
			spec:      model.FieldSpec{Name: "active", Title: "Active", Type: model.FieldCheckbox, Default: 1},
			contains:  []string{`type="checkbox"`, `id="formActive"`, ` checked`, `> Active</label>`},
		},
		{
			name:      "checkbox unchecked from other values",
			component: components.NameCheckbox,
			spec:      model.FieldSpec{Name: "active", Type: model.FieldCheckbox, Default: "yes"},
			absent:    []string{" checked"},
		},
		{
			name:      "textarea escapes default",
			component: components.NameTextarea,
			spec:      model.FieldSpec{Name: "notes", Type: model.FieldTextarea, Default: "<b>hi</b>"},
			contains:  []string{`>&lt;b&gt;hi&lt;/b&gt;</textarea>`},
			absent:    []string{"data-widget"},
		},
		{
			name:      "rich textarea marks widget",
			component: components.NameTextarea,
			spec:      model.FieldSpec{Name: "body", Type: model.FieldRichTextarea},
			contains:  []string{`data-widget="rich-text"`, `data-field-type="rich-textarea"`},
		},
		{
			name:      "upload with reset",
			component: components.NameUpload,
			spec:      model.FieldSpec{Name: "avatar", Type: model.FieldUpload, ResetUpload: true},
			contains:  []string{`type="file"`, `data-widget="upload"`, `data-reset="true"`, `id="formAvatarPreview"`},
		},
		{
			name:      "select marks default option",
			component: components.NameSelect,
			spec: model.FieldSpec{
				Name:    "size",
				Type:    model.FieldSelect,
				Default: "m",
				Options: model.Options{{Value: "s", Label: "Small"}, {Value: "m", Label: "Medium"}},
			},
			contains: []string{`<option value="s">Small</option>`, `<option value="m" selected>Medium</option>`},
		},
		{
			name:      "info is sanitized",
			component: components.NameInput,
			spec:      model.FieldSpec{Name: "mail", Info: `Use <b>work</b> mail<script>alert(1)</script>`},
			contains:  []string{`<p class="help-block">Use <b>work</b> mail</p>`},
			absent:    []string{"<script", "alert"},
		},
		{
			name:      "attributes filtered and sorted",
			component: components.NameInput,
			spec: model.FieldSpec{Name: "zip", Attributes: map[string]string{
				"placeholder": "00000",
				"maxlength":   "5",
				"onfocus":     "evil()",
				"id":          "hijack",
			}},
			contains: []string{` maxlength="5" placeholder="00000"`},
			absent:   []string{"evil", "hijack"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := renderField(t, r, tc.component, tc.spec)
			for _, want := range tc.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected markup to contain %q\n%s", want, out)
				}
			}
			for _, unwanted := range tc.absent {
				if strings.Contains(out, unwanted) {
					t.Errorf("expected markup to omit %q\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestRenderer_FieldIsDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	spec := model.FieldSpec{Name: "zip", Attributes: map[string]string{"a": "1", "b": "2", "c": "3"}}

	first := renderField(t, r, components.NameInput, spec)
	for i := 0; i < 5; i++ {
		if again := renderField(t, r, components.NameInput, spec); again != first {
			t.Fatalf("render %d differs:\n%s\n---\n%s", i, first, again)
		}
	}
}

func TestRenderer_FieldErrors(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.Field(FieldView{ID: "x", Component: "missing", Spec: model.FieldSpec{Name: "x"}}); err == nil {
		t.Fatalf("expected unknown component to fail")
	}
	if _, err := r.Field(FieldView{Component: components.NameInput, Spec: model.FieldSpec{Name: "x"}}); err == nil {
		t.Fatalf("expected missing id to fail")
	}
}

func TestRenderer_Modal(t *testing.T) {
	r := newTestRenderer(t)
	field := renderField(t, r, components.NameInput, model.FieldSpec{Name: "email"})

	out, err := r.Modal(ModalView{
		ID:          "contactModal",
		FormID:      "contactForm",
		SubmitID:    "contactSubmit",
		Name:        "contact",
		Title:       "Contact <us>",
		SubmitLabel: "Add",
		Fields:      []string{field},
	})
	if err != nil {
		t.Fatalf("render modal: %v", err)
	}

	for _, want := range []string{
		`id="contactModal"`,
		`<form id="contactForm"`,
		`<h4 class="modal-title">Contact &lt;us&gt;</h4>`,
		`<button type="submit" id="contactSubmit" class="btn btn-primary">Add</button>`,
		`id="formEmail"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected modal to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "<style>") {
		t.Errorf("expected no style block without theme")
	}
}

func TestRenderer_ThemePartialsAndCSSVars(t *testing.T) {
	files := fstest.MapFS{
		"templates/modal.tmpl":   {Data: mustReadEmbedded(t, "templates/modal.tmpl")},
		"themes/acme/input.tmpl": {Data: []byte(`<div class="form-group acme"><input id="{{ field.id }}" name="{{ field.name }}"></div>`)},
	}
	cfg := ThemeFromSelection(&theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:      "acme",
			Tokens:    map[string]string{"brand": "#123456"},
			Templates: map[string]string{"modalform.input": "themes/acme/input.tmpl"},
			Assets: theme.Assets{
				Prefix: "/static/acme",
				Files:  map[string]string{StylesheetAsset: "forms.css"},
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#000000"}},
			},
		},
	}, DefaultPartials())

	r := newTestRenderer(t, WithTemplatesFS(files), WithTheme(cfg))

	field := renderField(t, r, components.NameInput, model.FieldSpec{Name: "email"})
	if !strings.Contains(field, `class="form-group acme"`) {
		t.Fatalf("expected theme partial, got %s", field)
	}

	modal, err := r.Modal(ModalView{ID: "fModal", Name: "f", Fields: []string{field}})
	if err != nil {
		t.Fatalf("render modal: %v", err)
	}
	for _, want := range []string{
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		"--brand: #000000;",
		`<link rel="stylesheet" href="/static/acme/forms.css">`,
	} {
		if !strings.Contains(modal, want) {
			t.Errorf("expected modal to contain %q\n%s", want, modal)
		}
	}
}

func mustReadEmbedded(t *testing.T, name string) []byte {
	t.Helper()
	data, err := embeddedTemplates.ReadFile(name)
	if err != nil {
		t.Fatalf("read embedded %s: %v", name, err)
	}
	return data
}
