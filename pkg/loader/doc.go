// Package loader reads form declarations from YAML, JSON or TOML documents.
//
// A document holds either one form or a "forms" list. Every document is
// checked against the bundled JSON schema (see Schema) before it is decoded,
// so typos in keys or field types fail with a pointer to the offending value.
package loader
