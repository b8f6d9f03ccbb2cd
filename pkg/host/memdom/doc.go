// Package memdom is an in-memory host.Document. Mounted markup is parsed with
// golang.org/x/net/html and control state lives in the parsed tree, so HTML()
// always reflects what a user would see. It backs the terminal host, the demo
// server and the form tests.
package memdom
