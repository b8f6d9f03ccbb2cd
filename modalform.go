// Package modalform declares modal data-entry forms and mounts them into a
// host document.
//
// A form is described by a model.FormSpec (loaded with pkg/loader or derived
// from an OpenAPI operation with pkg/openapi), created through a registry,
// rendered with the embedded pongo2 templates, and submitted either to a
// remote endpoint or to a local hook.
//
// The package keeps a process-wide registry for callers that want a single
// global entry point:
//
//	doc := memdom.New()
//	modalform.Init(doc)
//	f, err := modalform.CreateForm(spec)
package modalform

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/registry"
	"github.com/goliatone/go-modalform/pkg/render"
)

// ErrNotInitialized is returned by the package-level helpers before Init.
var ErrNotInitialized = errors.New("modalform: default registry not initialized")

var (
	mu         sync.RWMutex
	defaultReg *registry.Registry
)

// Init replaces the default registry with an empty one mounting into doc.
func Init(doc host.Document, opts ...registry.Option) *registry.Registry {
	reg := registry.New(doc, opts...)
	mu.Lock()
	defer mu.Unlock()
	defaultReg = reg
	return reg
}

// Default returns the default registry, or nil before Init.
func Default() *registry.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return defaultReg
}

// CreateForm creates a form in the default registry.
func CreateForm(spec model.FormSpec, opts ...form.Option) (*form.Form, error) {
	reg := Default()
	if reg == nil {
		return nil, ErrNotInitialized
	}
	return reg.CreateForm(spec, opts...)
}

// Form looks a form up in the default registry.
func Form(name string) (*form.Form, bool) {
	reg := Default()
	if reg == nil {
		return nil, false
	}
	return reg.Get(name)
}

// CreateForms creates every spec in reg, stopping at the first failure.
func CreateForms(reg *registry.Registry, specs []model.FormSpec, opts ...form.Option) ([]*form.Form, error) {
	if reg == nil {
		return nil, ErrNotInitialized
	}
	out := make([]*form.Form, 0, len(specs))
	for _, spec := range specs {
		created, err := reg.CreateForm(spec, opts...)
		if err != nil {
			return out, err
		}
		out = append(out, created)
	}
	return out, nil
}

// EmbeddedTemplates exposes the built-in templates so callers can copy or
// override them (see render.WithTemplatesFS).
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
