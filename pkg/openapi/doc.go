// Package openapi derives form declarations from OpenAPI 3 operations.
//
// Each operation with a request body becomes one model.FormSpec: the path and
// method become the remote endpoint, and every top-level property of the body
// schema becomes a field. Formats and the required list map onto field types
// and validators (see FieldFromSchema).
package openapi
