package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"github.com/goliatone/go-modalform/pkg/host"
	"github.com/goliatone/go-modalform/pkg/model"
	"github.com/goliatone/go-modalform/pkg/remote"
	"github.com/goliatone/go-modalform/pkg/render"
	"github.com/goliatone/go-modalform/pkg/validation"
)

// DefaultSubmitLabel is the submit button text when none is configured.
const DefaultSubmitLabel = "Add"

// ModalID returns the id of the container a form is mounted under.
func ModalID(formName string) string {
	return formName + "Modal"
}

// SubmitID returns the id of the submit button.
func SubmitID(formName string) string {
	return formName + "-submit"
}

func formID(formName string) string {
	return formName + "-form"
}

// Form is a mounted modal form. It is created once and shown or hidden any
// number of times.
type Form struct {
	doc       host.Document
	spec      model.FormSpec
	fields    []*Field
	byName    map[string]*Field
	container host.Container
	logger    *slog.Logger
	remote    *remote.Client
	onSuccess func()
	onSubmit  SubmitHook

	mu          sync.Mutex
	valueSource ValueSource
	extra       map[string]any
}

// New builds the fields of spec, renders the modal, mounts it into doc and
// binds the fields. Render and mount failures are returned.
func New(doc host.Document, spec model.FormSpec, opts ...Option) (*Form, error) {
	if doc == nil {
		return nil, errors.New("form: document is required")
	}
	spec = spec.Clone()
	if strings.TrimSpace(spec.Name) == "" {
		return nil, errors.New("form: name is required")
	}
	if spec.Mode == "" {
		spec.Mode = model.ModeCreate
	}
	if !spec.Mode.Valid() {
		return nil, fmt.Errorf("form: invalid mode %q", spec.Mode)
	}
	if strings.TrimSpace(spec.SubmitLabel) == "" {
		spec.SubmitLabel = DefaultSubmitLabel
	}

	cfg := options{logger: slog.Default(), valueSource: emptyValueSource}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.valueSource == nil {
		cfg.valueSource = emptyValueSource
	}
	logger := cfg.logger.With("form", spec.Name)

	f := &Form{
		doc:         doc,
		spec:        spec,
		byName:      make(map[string]*Field, len(spec.Fields)),
		logger:      logger,
		remote:      cfg.remote,
		onSuccess:   cfg.onSuccess,
		onSubmit:    cfg.onSubmit,
		valueSource: cfg.valueSource,
		extra:       model.CloneData(spec.DefaultExtraData),
	}
	if f.onSuccess == nil {
		f.onSuccess = doc.Reload
	}
	if f.onSubmit == nil {
		f.onSubmit = f.logSubmit
	}
	if f.remote == nil && spec.Remote() {
		f.remote = remote.New(remote.WithLogger(cfg.logger))
	}

	ids := map[string]string{
		ModalID(spec.Name):  "container",
		SubmitID(spec.Name): "submit button",
		formID(spec.Name):   "form element",
	}
	for _, fieldSpec := range spec.Fields {
		field, err := newField(spec.Name, fieldSpec, logger)
		if err != nil {
			return nil, err
		}
		if _, exists := f.byName[field.Name()]; exists {
			return nil, fmt.Errorf("form: duplicate field %q", field.Name())
		}
		if owner, taken := ids[field.ID()]; taken {
			return nil, fmt.Errorf("form: field %q: id %q collides with %s", field.Name(), field.ID(), owner)
		}
		ids[field.ID()] = fmt.Sprintf("field %q", field.Name())
		f.fields = append(f.fields, field)
		f.byName[field.Name()] = field
	}

	renderer := cfg.renderer
	if renderer == nil {
		var err error
		if renderer, err = render.New(); err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
	}

	markup, err := f.render(renderer)
	if err != nil {
		return nil, err
	}
	container, err := doc.Mount(ModalID(spec.Name), markup)
	if err != nil {
		return nil, fmt.Errorf("form: mount %q: %w", spec.Name, err)
	}
	f.container = container

	for _, field := range f.fields {
		if field.Bind(container) {
			field.InitializeWidget()
		}
	}
	return f, nil
}

func (f *Form) render(renderer *render.Renderer) (string, error) {
	fragments := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		fragment, err := field.Render(renderer)
		if err != nil {
			return "", fmt.Errorf("form: %w", err)
		}
		fragments = append(fragments, fragment)
	}

	markup, err := renderer.Modal(render.ModalView{
		ID:          ModalID(f.spec.Name),
		FormID:      formID(f.spec.Name),
		SubmitID:    SubmitID(f.spec.Name),
		Name:        f.spec.Name,
		Title:       f.spec.Title,
		SubmitLabel: f.spec.SubmitLabel,
		Fields:      fragments,
	})
	if err != nil {
		return "", fmt.Errorf("form: %w", err)
	}
	return markup, nil
}

// Name returns the form name.
func (f *Form) Name() string { return f.spec.Name }

// Title returns the modal title.
func (f *Form) Title() string { return f.spec.Title }

// Mode returns the form mode.
func (f *Form) Mode() model.Mode { return f.spec.Mode }

// Spec returns a copy of the form declaration.
func (f *Form) Spec() model.FormSpec { return f.spec.Clone() }

// Container returns the mounted container.
func (f *Form) Container() host.Container { return f.container }

// Fields returns the fields in declaration order.
func (f *Form) Fields() []*Field {
	return append([]*Field(nil), f.fields...)
}

// Field returns the field called name.
func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.byName[name]
	return field, ok
}

// Show fills an edit-mode form from the value source, clears error flags,
// installs a fresh submit handler and displays the modal.
func (f *Form) Show(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if f.spec.Mode == model.ModeEdit {
		source := f.currentValueSource()
		for _, field := range f.fields {
			field.SetValue(source(field.Name()))
		}
	}
	for _, field := range f.fields {
		field.SetError(false)
	}

	f.container.OnSubmit(func(ctx context.Context) <-chan struct{} {
		return f.Submit(ctx).Done()
	})
	if err := f.container.Show(); err != nil {
		return fmt.Errorf("form: show %q: %w", f.spec.Name, err)
	}
	return nil
}

// Hide dismisses the modal. Field state is kept.
func (f *Form) Hide() error {
	if err := f.container.Dismiss(); err != nil {
		return fmt.Errorf("form: hide %q: %w", f.spec.Name, err)
	}
	return nil
}

// ApplyErrors flags every field whose name maps to a truthy marker and clears
// the rest.
func (f *Form) ApplyErrors(markers map[string]any) {
	for _, field := range f.fields {
		marker, present := markers[field.Name()]
		field.SetError(present && remote.Truthy(marker))
	}
}

// SetValueSource replaces the edit-mode value source. nil restores the
// default, which yields "" for every field.
func (f *Form) SetValueSource(fn ValueSource) {
	if fn == nil {
		fn = emptyValueSource
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valueSource = fn
}

func (f *Form) currentValueSource() ValueSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valueSource
}

// AddExtraData merges data into the extra data sent with every submission.
// Existing keys are overwritten.
func (f *Form) AddExtraData(data map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maps.Copy(f.extra, data)
}

// ExtraData returns a copy of the extra data.
func (f *Form) ExtraData() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.CloneData(f.extra)
}

// Submit collects and validates every field. Valid data goes to the remote
// endpoint when one is configured, otherwise to the submit hook. Submit
// returns at once; remote completion is posted back onto the document's
// event loop.
func (f *Form) Submit(ctx context.Context) *Submission {
	sub := newSubmission()
	data := f.ExtraData()

	fieldErrors := make(map[string]validation.Kind)
	misconfigured := false
	for _, field := range f.fields {
		value, _ := field.Value()
		data[field.Name()] = value

		result := field.Validate()
		if kind, failed := result.Failed(); failed {
			fieldErrors[field.Name()] = kind
			field.SetError(true)
			continue
		}
		if kind, unknown := result.Misconfigured(); unknown {
			misconfigured = true
			fieldErrors[field.Name()] = kind
			f.logger.Error("unknown validator", "field", field.Name(), "validator", kind.String())
		}
		field.SetError(false)
	}

	switch {
	case misconfigured:
		sub.finish(Outcome{Status: StatusConfigError, Data: data, FieldErrors: fieldErrors})
		return sub
	case len(fieldErrors) > 0:
		f.logger.Debug("submission rejected by validation", "errors", len(fieldErrors))
		sub.finish(Outcome{Status: StatusInvalid, Data: data, FieldErrors: fieldErrors})
		return sub
	}

	if !f.spec.Remote() {
		f.onSubmit(f, data)
		sub.finish(Outcome{Status: StatusHandled, Data: data})
		return sub
	}

	req := remote.Request{
		Form:     f.spec.Name,
		Endpoint: f.spec.RemoteEndpoint,
		Method:   f.spec.Method(),
		Data:     model.CloneData(data),
	}
	go func() {
		resp := f.remote.Submit(ctx, req)
		f.doc.Post(func() {
			sub.finish(f.complete(resp, data))
		})
	}()
	return sub
}

func (f *Form) complete(resp remote.Response, data map[string]any) Outcome {
	switch resp.Status {
	case remote.StatusSuccess:
		f.onSuccess()
		return Outcome{Status: StatusSuccess, Data: data}
	case remote.StatusValidationErrors:
		f.ApplyErrors(resp.Errors)
		return Outcome{Status: StatusRejected, Data: data, RemoteErrors: resp.Errors}
	case remote.StatusUnparseable:
		f.doc.ShowError(resp.Raw)
		return Outcome{Status: StatusUnparseable, Data: data, Raw: resp.Raw}
	default:
		err := resp.Err
		if err == nil {
			err = errors.New("form: remote submission failed")
		}
		f.doc.ShowError(err.Error())
		return Outcome{Status: StatusTransportError, Data: data, Err: err}
	}
}

func (f *Form) logSubmit(_ *Form, data map[string]any) {
	f.logger.Info("form submitted", "data", data)
}
