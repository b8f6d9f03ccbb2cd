// Package model defines the declarative description of a modal form: the
// field type taxonomy, per-field specs (name, title, type, validators, select
// options, defaults) and the form-level spec (mode, name, title, submit
// label, remote endpoint and method, extra submission data). Specs are plain
// data and decode from JSON or YAML; validators accept either a single rule
// name or a list, and select options accept either [value, label] pairs or
// {value, label} objects. Behaviour (hooks, value sources, hosts) is supplied
// separately when a form is constructed.
package model
