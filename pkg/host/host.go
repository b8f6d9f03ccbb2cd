// Package host describes the UI toolkit a form runs inside. A Document mounts
// rendered markup and owns the event loop; a Container is one mounted modal;
// an Element is one bound control.
//
// Implementations must make Post and submit-button dispatch run on the same
// serialized loop so handlers never race with completions.
package host

import (
	"context"
	"errors"
)

// ErrNotMounted is returned by container operations after the container was
// removed from its document.
var ErrNotMounted = errors.New("host: container not mounted")

// SubmitHandler handles a submit gesture. The returned channel is closed once
// the submission settles; hosts that drive forms interactively wait on it.
type SubmitHandler func(ctx context.Context) <-chan struct{}

// Document is the page a form is mounted in.
type Document interface {
	// Mount parses markup and registers it as a container under id.
	Mount(id, markup string) (Container, error)
	// Post schedules fn on the document's event loop.
	Post(fn func())
	// Reload reloads the page.
	Reload()
	// ShowError surfaces a message that could not be mapped to fields.
	ShowError(message string)
}

// Container is a mounted modal.
type Container interface {
	ID() string
	// Find returns every element carrying id. Callers treat anything other
	// than exactly one match as unbound.
	Find(id string) []Element
	// OnSubmit replaces the submit handler.
	OnSubmit(handler SubmitHandler)
	Show() error
	Dismiss() error
	Visible() bool
}

// Element is one interactive control.
type Element interface {
	ID() string
	Value() string
	SetValue(value string)
	Checked() bool
	SetChecked(checked bool)
	// SetGroupClass toggles class on the nearest enclosing form group.
	SetGroupClass(class string, on bool)
	HasGroupClass(class string) bool
	InitWidget(kind WidgetKind, opts WidgetOptions) (Widget, error)
}

// WidgetKind names an enhanced control.
type WidgetKind string

const (
	WidgetNone     WidgetKind = ""
	WidgetRichText WidgetKind = "rich-text"
	WidgetUpload   WidgetKind = "upload"
)

// WidgetOptions tune widget initialization.
type WidgetOptions struct {
	// Reset clears a previously uploaded asset when the upload widget starts.
	Reset bool
}

// Widget is an initialized enhanced control.
type Widget interface {
	Kind() WidgetKind
	SetValue(value string)
}
