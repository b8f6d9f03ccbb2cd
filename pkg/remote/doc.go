// Package remote delivers form submissions over HTTP and classifies the
// endpoint's answer: the literal body "success", a JSON object of per-field
// error markers, an unparseable body, or a transport failure.
package remote
