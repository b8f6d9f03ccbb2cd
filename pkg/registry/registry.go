// Package registry creates forms and keeps them addressable by name.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-modalform/pkg/form"
	"github.com/goliatone/go-modalform/pkg/host"
	"github.com/goliatone/go-modalform/pkg/model"
)

// Precondition failures, checked in this order.
var (
	ErrMissingEndpoint = errors.New("remote endpoint is required")
	ErrNoFields        = errors.New("at least one field is required")
	ErrInvalidMode     = errors.New("mode must be create or edit")
	ErrMissingName     = errors.New("form name is required")
	ErrDuplicateName   = errors.New("form name already registered")
)

// TitlePrefix prefixes generated titles; the suffix is the number of forms
// registered so far.
const TitlePrefix = "custom-form-"

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for diagnostics and passed on to forms.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFormOptions sets options applied to every form before per-call ones.
func WithFormOptions(opts ...form.Option) Option {
	return func(r *Registry) {
		r.formOpts = append(r.formOpts, opts...)
	}
}

// WithLocalForms lets forms without a remote endpoint through. Their valid
// submissions go to the form's submit hook.
func WithLocalForms() Option {
	return func(r *Registry) {
		r.allowLocal = true
	}
}

// Registry owns the forms of one document. Insertion is append-only and names
// are unique.
type Registry struct {
	mu         sync.Mutex
	doc        host.Document
	logger     *slog.Logger
	formOpts   []form.Option
	allowLocal bool
	forms      map[string]*form.Form
	order      []string
}

// New creates a registry mounting forms into doc.
func New(doc host.Document, opts ...Option) *Registry {
	r := &Registry{
		doc:    doc,
		logger: slog.Default(),
		forms:  make(map[string]*form.Form),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// CreateForm applies defaults to spec, checks it, builds the form and
// registers it. Failures return a nil form and an error wrapping one of the
// package sentinels, or the construction error.
func (r *Registry) CreateForm(spec model.FormSpec, opts ...form.Option) (*form.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec = r.withDefaults(spec)
	if err := r.check(spec); err != nil {
		r.logger.Error("form not created", "form", spec.Name, "error", err)
		return nil, err
	}

	formOpts := append([]form.Option{form.WithLogger(r.logger)}, r.formOpts...)
	formOpts = append(formOpts, opts...)
	created, err := form.New(r.doc, spec, formOpts...)
	if err != nil {
		r.logger.Error("form not created", "form", spec.Name, "error", err)
		return nil, fmt.Errorf("registry: create %q: %w", spec.Name, err)
	}

	r.forms[spec.Name] = created
	r.order = append(r.order, spec.Name)
	return created, nil
}

func (r *Registry) withDefaults(spec model.FormSpec) model.FormSpec {
	spec = spec.Clone()
	if spec.Mode == "" {
		spec.Mode = model.ModeCreate
	}
	if strings.TrimSpace(spec.Title) == "" {
		spec.Title = fmt.Sprintf("%s%d", TitlePrefix, len(r.forms))
	}
	if strings.TrimSpace(spec.SubmitLabel) == "" {
		spec.SubmitLabel = form.DefaultSubmitLabel
	}
	return spec
}

func (r *Registry) check(spec model.FormSpec) error {
	switch {
	case !r.allowLocal && !spec.Remote():
		return fmt.Errorf("registry: %w", ErrMissingEndpoint)
	case len(spec.Fields) == 0:
		return fmt.Errorf("registry: %w", ErrNoFields)
	case !spec.Mode.Valid():
		return fmt.Errorf("registry: mode %q: %w", spec.Mode, ErrInvalidMode)
	case strings.TrimSpace(spec.Name) == "":
		return fmt.Errorf("registry: %w", ErrMissingName)
	}
	if _, exists := r.forms[spec.Name]; exists {
		return fmt.Errorf("registry: form %q: %w", spec.Name, ErrDuplicateName)
	}
	return nil
}

// Get returns the form registered as name.
func (r *Registry) Get(name string) (*form.Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[name]
	return f, ok
}

// Names lists registered forms in creation order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Len reports how many forms are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}
