package loader

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/formspec.schema.json
var schemaSource string

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Schema returns the JSON schema documents are validated against.
func Schema() string {
	return schemaSource
}

func documentSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = jsonschema.CompileString("formspec.schema.json", schemaSource)
		if compileErr != nil {
			compileErr = fmt.Errorf("loader: compile document schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}
