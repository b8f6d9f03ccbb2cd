package form

import (
	"log/slog"

	"github.com/goliatone/go-modalform/pkg/remote"
	"github.com/goliatone/go-modalform/pkg/render"
)

// ValueSource supplies the value of a field when an edit-mode form is shown.
type ValueSource func(name string) any

// SubmitHook receives the collected data of a locally handled submission.
type SubmitHook func(f *Form, data map[string]any)

// Option configures a Form.
type Option func(*options)

type options struct {
	renderer    *render.Renderer
	logger      *slog.Logger
	remote      *remote.Client
	onSuccess   func()
	onSubmit    SubmitHook
	valueSource ValueSource
}

// WithRenderer sets the markup renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRemoteClient sets the client used for remote endpoints.
func WithRemoteClient(client *remote.Client) Option {
	return func(o *options) {
		if client != nil {
			o.remote = client
		}
	}
}

// OnSuccess sets the hook run after the endpoint accepts a submission. The
// default reloads the document.
func OnSuccess(fn func()) Option {
	return func(o *options) {
		o.onSuccess = fn
	}
}

// OnSubmit sets the hook run for valid submissions of forms without a remote
// endpoint. The default logs the data.
func OnSubmit(fn SubmitHook) Option {
	return func(o *options) {
		o.onSubmit = fn
	}
}

// WithValueSource sets the edit-mode value source.
func WithValueSource(fn ValueSource) Option {
	return func(o *options) {
		o.valueSource = fn
	}
}

func emptyValueSource(string) any {
	return ""
}
