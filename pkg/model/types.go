package model

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-modalform/pkg/validation"
)

// FieldType enumerates the supported input controls.
type FieldType string

const (
	FieldText         FieldType = "text"
	FieldTextarea     FieldType = "textarea"
	FieldRichTextarea FieldType = "rich-textarea"
	FieldCheckbox     FieldType = "checkbox"
	FieldUpload       FieldType = "upload"
	FieldPassword     FieldType = "password"
	FieldSelect       FieldType = "select"
	FieldPrice        FieldType = "price"
)

var fieldTypeAliases = map[string]FieldType{
	"":              FieldText,
	"text":          FieldText,
	"textarea":      FieldTextarea,
	"rich-textarea": FieldRichTextarea,
	"rich_textarea": FieldRichTextarea,
	"richtext":      FieldRichTextarea,
	"textarea-jqte": FieldRichTextarea,
	"checkbox":      FieldCheckbox,
	"upload":        FieldUpload,
	"file":          FieldUpload,
	"password":      FieldPassword,
	"select":        FieldSelect,
	"price":         FieldPrice,
}

// ParseFieldType resolves a type name, including legacy aliases. An empty
// name resolves to FieldText.
func ParseFieldType(raw string) (FieldType, bool) {
	kind, ok := fieldTypeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return kind, ok
}

// FieldTypes lists the supported types.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldText,
		FieldTextarea,
		FieldRichTextarea,
		FieldCheckbox,
		FieldUpload,
		FieldPassword,
		FieldSelect,
		FieldPrice,
	}
}

// Normalize maps aliases and the empty value onto the canonical type. Unknown
// values are returned unchanged.
func (t FieldType) Normalize() FieldType {
	if kind, ok := ParseFieldType(string(t)); ok {
		return kind
	}
	return t
}

// Known reports whether t (after normalisation) is a supported type.
func (t FieldType) Known() bool {
	_, ok := ParseFieldType(string(t))
	return ok
}

// TextLike reports whether the type renders a single-line text input that can
// carry an addon.
func (t FieldType) TextLike() bool {
	switch t.Normalize() {
	case FieldText, FieldPrice:
		return true
	default:
		return false
	}
}

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldSpec declares one input.
type FieldSpec struct {
	Name        string            `json:"name" yaml:"name"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Type        FieldType         `json:"type,omitempty" yaml:"type,omitempty"`
	Addon       string            `json:"addon,omitempty" yaml:"addon,omitempty"`
	Validators  Validators        `json:"validators,omitempty" yaml:"validators,omitempty"`
	Info        string            `json:"info,omitempty" yaml:"info,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	Options     Options           `json:"options,omitempty" yaml:"options,omitempty"`
	ResetUpload bool              `json:"resetUpload,omitempty" yaml:"resetUpload,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Mode selects whether showing a form pre-fills it.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Valid reports whether m is create or edit.
func (m Mode) Valid() bool {
	return m == ModeCreate || m == ModeEdit
}

// FormSpec declares a form and how its data is delivered.
type FormSpec struct {
	Mode             Mode           `json:"mode,omitempty" yaml:"mode,omitempty"`
	Name             string         `json:"name" yaml:"name"`
	Title            string         `json:"title,omitempty" yaml:"title,omitempty"`
	Fields           []FieldSpec    `json:"fields" yaml:"fields"`
	SubmitLabel      string         `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	RemoteEndpoint   string         `json:"remoteEndpoint,omitempty" yaml:"remoteEndpoint,omitempty"`
	RemoteMethod     string         `json:"remoteMethod,omitempty" yaml:"remoteMethod,omitempty"`
	DefaultExtraData map[string]any `json:"defaultExtraData,omitempty" yaml:"defaultExtraData,omitempty"`
}

// Method returns the upper-cased remote method, defaulting to POST.
func (s FormSpec) Method() string {
	method := strings.ToUpper(strings.TrimSpace(s.RemoteMethod))
	if method == "" {
		return http.MethodPost
	}
	return method
}

// Remote reports whether submissions are delivered to a remote endpoint.
func (s FormSpec) Remote() bool {
	return strings.TrimSpace(s.RemoteEndpoint) != ""
}

// Field returns the spec for name.
func (s FormSpec) Field(name string) (FieldSpec, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Clone returns a copy that shares no slices or maps with s.
func (s FormSpec) Clone() FormSpec {
	out := s
	if len(s.Fields) > 0 {
		out.Fields = make([]FieldSpec, len(s.Fields))
		for idx, field := range s.Fields {
			out.Fields[idx] = field.Clone()
		}
	}
	out.DefaultExtraData = CloneData(s.DefaultExtraData)
	return out
}

// Clone returns a copy that shares no slices or maps with f.
func (f FieldSpec) Clone() FieldSpec {
	out := f
	out.Validators = append(Validators(nil), f.Validators...)
	out.Options = append(Options(nil), f.Options...)
	if len(f.Attributes) > 0 {
		out.Attributes = make(map[string]string, len(f.Attributes))
		for key, value := range f.Attributes {
			out.Attributes[key] = value
		}
	}
	return out
}

// CloneData shallow-copies a submission data map. It returns an empty,
// non-nil map for nil input so callers can write into the result.
func CloneData(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

// Kinds returns the declared validators as validation kinds.
func (f FieldSpec) Kinds() []validation.Kind {
	return []validation.Kind(f.Validators)
}
