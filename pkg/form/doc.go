// Package form is the runtime of a modal form. A Form renders its fields into
// a modal, mounts it through a host.Document, binds each field to its element
// and runs the submit cycle: collect values, validate, flag errors, then hand
// the data to a remote endpoint or a local hook.
//
// Fields whose element could not be bound stay usable: every operation that
// touches the element is a no-op, they validate as valid and submit a nil
// value.
package form
