package openapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modalform/pkg/model"
)

var (
	// ErrOperationNotFound is returned when no operation carries the
	// requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned for operations without a usable body
	// schema.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

// preferred request body media types, most form-like first.
var mediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Importer turns OpenAPI documents into form declarations.
type Importer struct {
	logger   *slog.Logger
	validate bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used to report skipped properties.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithoutValidation skips OpenAPI document validation after loading.
func WithoutValidation() Option {
	return func(i *Importer) {
		i.validate = false
	}
}

// New builds an Importer.
func New(options ...Option) *Importer {
	i := &Importer{logger: slog.Default(), validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Document is a loaded OpenAPI document.
type Document struct {
	spec       *openapi3.T
	logger     *slog.Logger
	operations map[string]operationRef
}

type operationRef struct {
	method    string
	path      string
	operation *openapi3.Operation
}

// Load parses and, unless disabled, validates an OpenAPI 3 document.
func (i *Importer) Load(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if i.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation(), openapi3.DisableSchemaFormatValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	doc := &Document{spec: spec, logger: i.logger, operations: make(map[string]operationRef)}
	if spec.Paths == nil {
		return doc, nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = fallbackOperationID(method, path)
			}
			doc.operations[id] = operationRef{method: strings.ToUpper(method), path: path, operation: operation}
		}
	}
	return doc, nil
}

// OperationIDs lists, sorted, the operations that carry a request body.
func (d *Document) OperationIDs() []string {
	ids := make([]string, 0, len(d.operations))
	for id, ref := range d.operations {
		if bodySchema(ref.operation) == nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Form builds the declaration for one operation.
func (d *Document) Form(operationID string) (model.FormSpec, error) {
	ref, ok := d.operations[operationID]
	if !ok {
		return model.FormSpec{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := bodySchema(ref.operation)
	if schema == nil {
		return model.FormSpec{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	properties, required := flattenProperties(schema)
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	spec := model.FormSpec{
		Mode:           modeFor(ref.method),
		Name:           formName(operationID),
		Title:          strings.TrimSpace(ref.operation.Summary),
		RemoteEndpoint: ref.path,
		RemoteMethod:   ref.method,
	}
	for _, name := range names {
		field, ok := FieldFromSchema(name, properties[name], required[name])
		if !ok {
			d.logger.Debug("property skipped", "operation", operationID, "property", name)
			continue
		}
		spec.Fields = append(spec.Fields, field)
	}
	if len(spec.Fields) == 0 {
		return model.FormSpec{}, fmt.Errorf("%w: %q has no scalar properties", ErrNoRequestBody, operationID)
	}
	return spec, nil
}

// Forms builds a declaration for every operation with a request body.
// Operations whose body yields no fields are skipped.
func (d *Document) Forms() []model.FormSpec {
	var out []model.FormSpec
	for _, id := range d.OperationIDs() {
		spec, err := d.Form(id)
		if err != nil {
			d.logger.Debug("operation skipped", "operation", id, "error", err)
			continue
		}
		out = append(out, spec)
	}
	return out
}

// FromOperation loads data and builds the form for operationID.
func FromOperation(ctx context.Context, data []byte, operationID string) (model.FormSpec, error) {
	doc, err := New().Load(ctx, data)
	if err != nil {
		return model.FormSpec{}, err
	}
	return doc.Form(operationID)
}

func bodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation == nil || operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// flattenProperties merges the properties of schema and its allOf members.
func flattenProperties(schema *openapi3.Schema) (map[string]*openapi3.Schema, map[string]bool) {
	properties := make(map[string]*openapi3.Schema)
	required := make(map[string]bool)

	var walk func(s *openapi3.Schema, depth int)
	walk = func(s *openapi3.Schema, depth int) {
		if s == nil || depth > 8 {
			return
		}
		for _, member := range s.AllOf {
			if member != nil {
				walk(member.Value, depth+1)
			}
		}
		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				properties[name] = ref.Value
			}
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	walk(schema, 0)
	return properties, required
}

func modeFor(method string) model.Mode {
	switch method {
	case http.MethodPut, http.MethodPatch:
		return model.ModeEdit
	default:
		return model.ModeCreate
	}
}

func formName(operationID string) string {
	name := strings.Trim(unsafeNameChars.ReplaceAllString(operationID, "_"), "_")
	if name == "" {
		return "form"
	}
	return name
}

func fallbackOperationID(method, path string) string {
	return strings.ToLower(method) + "_" + strings.Trim(unsafeNameChars.ReplaceAllString(path, "_"), "_")
}
