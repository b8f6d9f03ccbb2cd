package openapi

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/validation"
)

const (
	typeExtensionKey  = "x-modalform-type"
	addonExtensionKey = "x-modalform-addon"
)

// longTextThreshold is the maxLength above which strings become textareas.
const longTextThreshold = 255

// FieldFromSchema maps one body property onto a field. It reports false for
// read-only, object and array properties, which have no form control.
//
//	boolean                 -> checkbox
//	enum                    -> select
//	format password         -> password
//	format binary           -> upload
//	format html             -> rich-textarea
//	maxLength > 255         -> textarea
//	format email            -> EMAIL
//	format date             -> DATE (?DATE when optional)
//	format time             -> HOUR
//	number, integer         -> NUMBER
//	required                -> NOTEMPTY
//
// x-modalform-type and x-modalform-addon override the derived type and addon.
func FieldFromSchema(name string, schema *openapi3.Schema, required bool) (model.FieldSpec, bool) {
	if schema == nil || schema.ReadOnly {
		return model.FieldSpec{}, false
	}
	if schema.Type != nil && (schema.Type.Is(openapi3.TypeObject) || schema.Type.Is(openapi3.TypeArray)) {
		return model.FieldSpec{}, false
	}

	field := model.FieldSpec{
		Name:    name,
		Title:   strings.TrimSpace(schema.Title),
		Info:    strings.TrimSpace(schema.Description),
		Default: schema.Default,
		Type:    model.FieldText,
	}

	var kinds []validation.Kind
	if required {
		kinds = append(kinds, validation.KindNotEmpty)
	}

	switch {
	case schema.Type != nil && schema.Type.Is(openapi3.TypeBoolean):
		field.Type = model.FieldCheckbox
		// An unticked checkbox is a legitimate answer.
		kinds = nil
	case len(schema.Enum) > 0:
		field.Type = model.FieldSelect
		for _, value := range schema.Enum {
			formatted := model.FormatValue(value)
			field.Options = append(field.Options, model.Option{Value: formatted, Label: formatted})
		}
	case schema.Format == "password":
		field.Type = model.FieldPassword
	case schema.Format == "binary":
		field.Type = model.FieldUpload
	case schema.Format == "html":
		field.Type = model.FieldRichTextarea
	case schema.MaxLength != nil && *schema.MaxLength > longTextThreshold:
		field.Type = model.FieldTextarea
	}

	if field.Type == model.FieldText {
		switch {
		case schema.Format == "email":
			kinds = append(kinds, validation.KindEmail)
		case schema.Format == "date" && required:
			kinds = append(kinds, validation.KindDate)
		case schema.Format == "date":
			kinds = append(kinds, validation.KindOptionalDate)
		case schema.Format == "time":
			kinds = append(kinds, validation.KindHour)
		case schema.Type != nil && (schema.Type.Is(openapi3.TypeNumber) || schema.Type.Is(openapi3.TypeInteger)):
			kinds = append(kinds, validation.KindNumber)
		}
	}

	if override, ok := stringExtension(schema.Extensions, typeExtensionKey); ok {
		if kind, known := model.ParseFieldType(override); known {
			field.Type = kind
		}
	}
	if addon, ok := stringExtension(schema.Extensions, addonExtensionKey); ok {
		field.Addon = addon
	}

	if len(kinds) > 0 {
		field.Validators = model.Validators(kinds)
	}
	return field, true
}

func stringExtension(extensions map[string]any, key string) (string, bool) {
	if len(extensions) == 0 {
		return "", false
	}
	value, ok := extensions[key].(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}
