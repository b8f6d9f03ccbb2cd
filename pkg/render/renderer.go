package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/render/components"
	rendertemplate "github.com/goliatone/go-modalform/pkg/render/template"
	"github.com/goliatone/go-modalform/pkg/render/template/pongo"
)

// PriceAddon is the addon shown next to price inputs without an explicit one.
const PriceAddon = "€"

const modalTemplate = "templates/modal.tmpl"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	theme            *theme.RendererConfig
	globals          map[string]any
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a template engine. Template FS options are
// ignored when one is supplied.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithTheme applies a go-theme renderer configuration.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeCfg
	}
}

// WithGlobals exposes values to every template under their keys.
func WithGlobals(values map[string]any) Option {
	return func(cfg *config) {
		if len(values) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			cfg.globals[key] = value
		}
	}
}

// FieldView is what the renderer needs to draw one field.
type FieldView struct {
	ID        string
	Component string
	Spec      model.FieldSpec
}

// ModalView is what the renderer needs to draw the modal container. Fields
// holds already rendered field fragments in display order.
type ModalView struct {
	ID          string
	FormID      string
	SubmitID    string
	Name        string
	Title       string
	SubmitLabel string
	Fields      []string
}

// Renderer turns field and modal views into markup. It is safe for concurrent
// use once constructed.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	theme      *theme.RendererConfig
}

// New constructs a Renderer backed by the embedded templates unless options
// say otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.templateRenderer
	if engine == nil {
		pongoEngine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		engine = pongoEngine
	}
	if len(cfg.globals) > 0 {
		if err := engine.GlobalContext(cfg.globals); err != nil {
			return nil, fmt.Errorf("render: apply globals: %w", err)
		}
	}

	registry := cfg.components
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{
		templates:  engine,
		components: registry,
		theme:      cfg.theme,
	}, nil
}

// Theme returns the configured theme, if any.
func (r *Renderer) Theme() *theme.RendererConfig {
	return r.theme
}

// Field renders one field fragment. The fragment contains exactly one
// interactive control carrying view.ID.
func (r *Renderer) Field(view FieldView) (string, error) {
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("render: renderer is not configured")
	}
	if strings.TrimSpace(view.ID) == "" {
		return "", fmt.Errorf("render: field %q has no element id", view.Spec.Name)
	}

	descriptor, ok := r.components.Descriptor(view.Component)
	if !ok {
		return "", fmt.Errorf("render: component %q not registered (field %q)", view.Component, view.Spec.Name)
	}

	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, fieldPayload(view), components.ComponentData{
		Template: r.templates,
		Partials: r.partials(),
	})
	if err != nil {
		return "", fmt.Errorf("render: field %q: %w", view.Spec.Name, err)
	}
	return buf.String(), nil
}

// Modal renders the container wrapping the field fragments.
func (r *Renderer) Modal(view ModalView) (string, error) {
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("render: renderer is not configured")
	}

	name := modalTemplate
	if candidate := strings.TrimSpace(r.partials()["modalform.modal"]); candidate != "" {
		name = candidate
	}

	out, err := r.templates.RenderTemplate(name, map[string]any{
		"modal": map[string]any{
			"id":           view.ID,
			"form_id":      view.FormID,
			"submit_id":    view.SubmitID,
			"name":         view.Name,
			"title":        view.Title,
			"submit_label": view.SubmitLabel,
		},
		"fields": view.Fields,
		"theme":  themePayload(r.theme),
	})
	if err != nil {
		return "", fmt.Errorf("render: modal %q: %w", view.Name, err)
	}
	return out, nil
}

func (r *Renderer) partials() map[string]string {
	if r.theme == nil {
		return nil
	}
	return r.theme.Partials
}

func fieldPayload(view FieldView) map[string]any {
	spec := view.Spec
	kind := spec.Type.Normalize()

	title := strings.TrimSpace(spec.Title)
	if title == "" {
		title = spec.Name
	}

	value := model.FormatValue(spec.Default)
	payload := map[string]any{
		"id":           view.ID,
		"name":         spec.Name,
		"title":        title,
		"type":         string(kind),
		"input_type":   "text",
		"value":        value,
		"checked":      false,
		"widget":       "",
		"reset_upload": spec.ResetUpload,
		"info":         SanitizeInfo(spec.Info),
		"attrs":        attributes(spec.Attributes),
	}

	switch kind {
	case model.FieldPassword:
		payload["input_type"] = "password"
		payload["value"] = ""
	case model.FieldCheckbox:
		payload["checked"] = model.IsChecked(spec.Default)
	case model.FieldRichTextarea:
		payload["widget"] = "rich-text"
	case model.FieldUpload:
		payload["widget"] = "upload"
		payload["value"] = ""
	case model.FieldSelect:
		payload["options"] = selectOptions(spec.Options, value)
	}

	if kind.TextLike() {
		addon := spec.Addon
		if kind == model.FieldPrice && strings.TrimSpace(addon) == "" {
			addon = PriceAddon
		}
		payload["addon"] = SanitizeAddon(addon)
	}
	return payload
}

func selectOptions(options []model.Option, selected string) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		out = append(out, map[string]any{
			"value":    option.Value,
			"label":    label,
			"selected": selected != "" && option.Value == selected,
		})
	}
	return out
}

var (
	attrNamePattern = regexp.MustCompile(`^[a-zA-Z_:][-a-zA-Z0-9_:.]*$`)
	reservedAttrs   = []string{"id", "name", "type", "value", "checked", "data-field-type", "data-widget"}
)

func attributes(attrs map[string]string) []map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		lower := strings.ToLower(strings.TrimSpace(key))
		if !attrNamePattern.MatchString(lower) || slices.Contains(reservedAttrs, lower) || strings.HasPrefix(lower, "on") {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make([]map[string]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, map[string]string{
			"name":  strings.ToLower(strings.TrimSpace(key)),
			"value": attrs[key],
		})
	}
	return out
}
