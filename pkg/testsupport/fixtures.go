// Package testsupport holds fixtures shared by the package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-modalform/pkg/loader"
	"github.com/goliatone/go-modalform/pkg/model"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MustLoadSpecs parses a form document fixture and returns its specs in
// document order.
func MustLoadSpecs(t *testing.T, path string) []model.FormSpec {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	specs, err := loader.Parse(data, filepath.Base(path))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return specs
}

// MustLoadSpec returns the named spec from a form document fixture.
func MustLoadSpec(t *testing.T, path, name string) model.FormSpec {
	t.Helper()

	for _, spec := range MustLoadSpecs(t, path) {
		if spec.Name == name {
			return spec
		}
	}
	t.Fatalf("fixture %s has no form %q", path, name)
	return model.FormSpec{}
}

// Context returns a context cancelled when the test ends or after a generous
// deadline, whichever comes first.
func Context(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CaptureOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
