package components

import (
	"bytes"
	"fmt"
	"strings"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry holding the built-in field components.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, name := range []string{NameInput, NameTextarea, NameCheckbox, NameUpload, NameSelect} {
		registry.MustRegister(name, Descriptor{
			Partial:  "modalform." + name,
			Renderer: TemplateRenderer("modalform."+name, templatePrefix+name+".tmpl"),
		})
	}
	return registry
}

// TemplateRenderer renders templateName, or the theme partial registered
// under partialKey when one is configured.
func TemplateRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field map[string]any, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{
			"field":  field,
			"config": data.Config,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
