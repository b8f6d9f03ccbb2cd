// Package validation implements the fixed validator set applied to field
// values before submission. Every rule is a pure function of the raw string
// value. Rules run in declared order and the first failure wins; unknown rule
// names are reported as a distinct status so configuration mistakes cannot be
// mistaken for valid input.
package validation
