package form

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-modalform/pkg/host"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/render"
	"github.com/goliatone/go-modalform/pkg/validation"
)

// ErrorClass marks the form group of a field that failed validation.
const ErrorClass = "has-error"

// ElementID returns the element id of a field: the form name followed by the
// field name with its first letter upper-cased.
func ElementID(formName, fieldName string) string {
	r, size := utf8.DecodeRuneInString(fieldName)
	if size == 0 {
		return formName
	}
	return formName + string(unicode.ToUpper(r)) + fieldName[size:]
}

// binding holds the element a field is bound to, if any.
type binding struct {
	element host.Element
}

func (b binding) with(fn func(host.Element)) {
	if b.element != nil {
		fn(b.element)
	}
}

// Field is one runtime field.
type Field struct {
	spec     model.FieldSpec
	kind     model.FieldType
	id       string
	behavior behavior
	binding  binding
	widget   host.Widget
	logger   *slog.Logger
}

func newField(formName string, spec model.FieldSpec, logger *slog.Logger) (*Field, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("form: field name is required")
	}
	kind := spec.Type.Normalize()
	b, ok := behaviorFor(kind)
	if !ok {
		return nil, fmt.Errorf("form: field %q: unsupported type %q", spec.Name, spec.Type)
	}
	spec = spec.Clone()
	spec.Type = kind
	return &Field{
		spec:     spec,
		kind:     kind,
		id:       ElementID(formName, spec.Name),
		behavior: b,
		logger:   logger,
	}, nil
}

// Name returns the field name.
func (f *Field) Name() string { return f.spec.Name }

// ID returns the element id.
func (f *Field) ID() string { return f.id }

// Type returns the normalized field type.
func (f *Field) Type() model.FieldType { return f.kind }

// Spec returns a copy of the field declaration.
func (f *Field) Spec() model.FieldSpec { return f.spec.Clone() }

// Bound reports whether the field resolved to exactly one element.
func (f *Field) Bound() bool { return f.binding.element != nil }

// Render produces the field markup.
func (f *Field) Render(r *render.Renderer) (string, error) {
	return r.Field(render.FieldView{ID: f.id, Component: f.behavior.component, Spec: f.spec})
}

// Bind looks the element up in container. The field is bound only when
// exactly one element carries its id.
func (f *Field) Bind(container host.Container) bool {
	f.binding = binding{}
	f.widget = nil
	if container == nil {
		return false
	}
	found := container.Find(f.id)
	if len(found) != 1 {
		f.logger.Warn("field not bound", "field", f.spec.Name, "id", f.id, "matches", len(found))
		return false
	}
	f.binding = binding{element: found[0]}
	return true
}

// InitializeWidget attaches the enhanced widget for rich text and upload
// fields. A host failure is logged and the field keeps working as a plain
// control.
func (f *Field) InitializeWidget() {
	if f.behavior.widget == host.WidgetNone {
		return
	}
	f.binding.with(func(el host.Element) {
		opts := host.WidgetOptions{Reset: f.behavior.widget == host.WidgetUpload && f.spec.ResetUpload}
		widget, err := el.InitWidget(f.behavior.widget, opts)
		if err != nil {
			f.logger.Warn("widget initialization failed", "field", f.spec.Name, "widget", string(f.behavior.widget), "error", err)
			return
		}
		f.widget = widget
	})
}

// SetValue writes v into the control. Checkboxes are checked only for 1,
// "1" and true.
func (f *Field) SetValue(v any) {
	f.binding.with(func(el host.Element) {
		if f.behavior.access == accessChecked {
			el.SetChecked(model.IsChecked(v))
			return
		}
		text := model.FormatValue(v)
		if f.widget != nil {
			f.widget.SetValue(text)
			return
		}
		el.SetValue(text)
	})
}

// Value reads the control. Checkboxes yield 1 or 0, every other type the raw
// string. ok is false when the field is unbound.
func (f *Field) Value() (value any, ok bool) {
	f.binding.with(func(el host.Element) {
		ok = true
		if f.behavior.access == accessChecked {
			if el.Checked() {
				value = 1
			} else {
				value = 0
			}
			return
		}
		value = el.Value()
	})
	return value, ok
}

// Validate runs the declared validators in order against the current value.
// Unbound fields are valid.
func (f *Field) Validate() validation.Result {
	value, ok := f.Value()
	if !ok {
		return validation.Valid()
	}
	return validation.Run(f.spec.Kinds(), model.FormatValue(value))
}

// SetError toggles the error class on the field's form group.
func (f *Field) SetError(on bool) {
	f.binding.with(func(el host.Element) {
		el.SetGroupClass(ErrorClass, on)
	})
}

// HasError reports whether the error class is set.
func (f *Field) HasError() bool {
	has := false
	f.binding.with(func(el host.Element) {
		has = el.HasGroupClass(ErrorClass)
	})
	return has
}
